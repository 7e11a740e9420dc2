// Package testkit 提供测试用的 sqlite 数据库与事件收集器
package testkit

import (
	"Omnisell/migrations"
	"Omnisell/pkg/notify"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的 sqlite 文件，单连接串行化事务
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "omnisell.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Run(db))
	return db
}

// RecordingSink 收集已投递的事件
type RecordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *RecordingSink) Name() string { return "recording" }

func (s *RecordingSink) Send(_ context.Context, e notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *RecordingSink) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

func (s *RecordingSink) OfType(t notify.EventType) []notify.Event {
	var out []notify.Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// NewDispatcher 返回带 RecordingSink 的 dispatcher
func NewDispatcher() (*notify.Dispatcher, *RecordingSink) {
	sink := &RecordingSink{}
	return notify.NewDispatcher(sink), sink
}
