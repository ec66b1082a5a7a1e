package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL      string
	MigrationsFolder string
	ListenAddr       string
	KafkaCfg         *KafkaConfig
	LogLevel         string
	Tuning           *Tuning
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Tuning carries operational knobs sourced from the environment only; the
// defaults are safe for local use.
type Tuning struct {
	PoolMaxConns      int32         `env:"DB_POOL_MAX_CONNS" envDefault:"10"`
	QueryTimeout      time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"10s"`
	KafkaRequiredAcks int           `env:"KAFKA_REQUIRED_ACKS" envDefault:"1"`
	KafkaBatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"1s"`
	KafkaWriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"10s"`
	HTTPReadTimeout   time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout  time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func LoadTuning() (*Tuning, error) {
	tuning := &Tuning{}
	if err := env.Parse(tuning); err != nil {
		return nil, err
	}
	return tuning, nil
}
