package dao

import (
	"Omnisell/models"
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Channel struct {
	Repo[models.SalesChannel]
	// 渠道类型 -> id，渠道只增不删，缓存不失效
	ids cmap.ConcurrentMap[string, uint64]
}

func NewChannel(db *gorm.DB) *Channel {
	return &Channel{
		Repo: NewRepo[models.SalesChannel](db),
		ids:  cmap.New[uint64](),
	}
}

func (c *Channel) FindByType(ctx context.Context, typ string) (*models.SalesChannel, error) {
	var ch models.SalesChannel
	if err := c.Conn(ctx).Where("type = ?", typ).First(&ch).Error; err != nil {
		return nil, err
	}
	c.ids.Set(typ, ch.ID)
	return &ch, nil
}

// FirstOrCreate 按类型幂等创建渠道
func (c *Channel) FirstOrCreate(ctx context.Context, typ, name string) (*models.SalesChannel, error) {
	if id, ok := c.ids.Get(typ); ok {
		if ch, err := c.FindByID(ctx, id); err == nil {
			return ch, nil
		}
		c.ids.Remove(typ)
	}

	err := c.Conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoNothing: true,
	}).Create(&models.SalesChannel{Name: name, Type: typ, IsActive: true}).Error
	if err != nil {
		return nil, err
	}
	return c.FindByType(ctx, typ)
}

func (c *Channel) Touch(ctx context.Context, id uint64) error {
	return c.UpdateColumns(ctx, id, map[string]any{"last_sync_at": time.Now()})
}
