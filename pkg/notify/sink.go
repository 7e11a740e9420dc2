package notify

import (
	"Omnisell/config"
	"Omnisell/pkg/kafka"
	"Omnisell/pkg/log"
	"Omnisell/pkg/rocketmq"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// LogSink 写结构化日志，始终启用
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Send(_ context.Context, e Event) error {
	log.L.Info("event",
		zap.String("type", string(e.Type)),
		zap.String("id", e.ID),
		zap.Uint64("order_id", e.OrderID),
		zap.String("order_sn", e.OrderSn),
		zap.String("amount", e.Amount.StringFixed(2)),
		zap.Uint64("user_id", e.UserID),
		zap.Uint64("product_id", e.ProductID),
		zap.Any("data", e.Data),
	)
	return nil
}

type RocketMQSink struct {
	Producer *rocketmq.Rocketmq
	Topic    string
}

func (s *RocketMQSink) Name() string { return "rocketmq" }

func (s *RocketMQSink) Send(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.Producer.SendMsg(ctx, s.Topic, string(e.Type), body, e.Key())
}

type KafkaSink struct {
	Producer *kafka.Producer
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.Producer.Publish(ctx, e.Key(), body, map[string]string{
		"ce-id":        e.ID,
		"ce-type":      string(e.Type),
		"ce-source":    "omnisell",
		"ce-time":      e.OccurredAt.Format(time.RFC3339),
		"content-type": "application/json",
	})
}

// NewDispatcherFromConfig 按配置装配 sink，返回的 cleanup 先等待投递完成再关闭连接
func NewDispatcherFromConfig(conf *config.Config) (*Dispatcher, func(), error) {
	sinks := []Sink{LogSink{}}
	var closers []func() error

	if conf.Notify.RocketMQ && conf.RocketMQ != nil {
		p, err := rocketmq.InitProducer(conf.RocketMQ)
		if err != nil {
			return nil, nil, err
		}
		mq := &rocketmq.Rocketmq{RocketmqProducer: p}
		sinks = append(sinks, &RocketMQSink{Producer: mq, Topic: conf.RocketMQ.Topic})
		closers = append(closers, mq.Shutdown)
	}
	if conf.Notify.Kafka && conf.Kafka != nil {
		p := kafka.NewProducer(conf.Kafka)
		sinks = append(sinks, &KafkaSink{Producer: p})
		closers = append(closers, p.Close)
	}

	d := NewDispatcher(sinks...)
	cleanup := func() {
		d.Wait()
		for _, c := range closers {
			if err := c(); err != nil {
				log.L.Warn("close notify sink", zap.Error(err))
			}
		}
	}
	return d, cleanup, nil
}
