package notify

import (
	"Omnisell/pkg/log"
	"Omnisell/pkg/metrics"
	"context"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Sink 通知下游，失败只记录日志
type Sink interface {
	Name() string
	Send(ctx context.Context, e Event) error
}

type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	wg      conc.WaitGroup
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		timeout: 5 * time.Second,
	}
}

// Within 执行 fn，fn 内 Record 的事件在 fn 成功返回后投递；嵌套调用并入最外层
func (d *Dispatcher) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(bufferKey{}).(*buffer); ok {
		return fn(ctx)
	}
	b := &buffer{}
	if err := fn(context.WithValue(ctx, bufferKey{}, b)); err != nil {
		return err
	}
	d.Publish(ctx, b.drain()...)
	return nil
}

// Publish 异步扇出到所有 sink，不阻塞调用方
func (d *Dispatcher) Publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	for _, e := range events {
		for _, s := range d.sinks {
			d.wg.Go(func() {
				d.deliver(base, s, e)
			})
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, s Sink, e Event) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var pc panics.Catcher
	var err error
	pc.Try(func() {
		err = s.Send(ctx, e)
	})
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}
	if err != nil {
		metrics.NotifyFailures.WithLabelValues(s.Name()).Inc()
		log.L.Warn("notify failed",
			zap.String("sink", s.Name()),
			zap.String("event", string(e.Type)),
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
	}
}

// Wait 等待已提交的投递完成，关闭服务前调用
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
