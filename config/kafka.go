package config

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Notify 通知下游配置，log 始终开启
type Notify struct {
	RocketMQ bool `json:"rocketmq" yaml:"rocketmq"`
	Kafka    bool `json:"kafka" yaml:"kafka"`
}
