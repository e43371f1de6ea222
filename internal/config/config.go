package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken        string `env:"BOT_TOKEN,required"`
	CommandPrefix   string `env:"COMMAND_PREFIX" envDefault:"!"`
	DataDir         string `env:"DATA_DIR" envDefault:"data"`
	MetricsAddr     string `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	EnableTelemetry bool   `env:"ENABLE_TELEMETRY" envDefault:"true"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
