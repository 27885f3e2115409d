package appbase

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/starx-inc/airbyte/base/logging"
)

// ConnectorSettings are process level knobs shared by all connectors. Airbyte passes
// them via environment variables, e.g. CONNECTOR_LOG_LEVEL=debug.
type ConnectorSettings struct {
	// LogLevel log level. Can be `debug`, `info`, `warn`, `error`. Default: `info`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// LogFormat log format. Can be `text` or `json`. Default: `text`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	// HTTPTimeoutSec timeout for outgoing HTTP requests made by connectors
	HTTPTimeoutSec int `mapstructure:"HTTP_TIMEOUT_SEC"`
	// BatchSize number of records that destination connectors accumulate before flushing
	BatchSize int `mapstructure:"BATCH_SIZE"`
}

func (s *ConnectorSettings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSec) * time.Second
}

// LoadConnectorSettings reads ConnectorSettings from CONNECTOR_* environment variables
// applying defaults for everything that is not set.
func LoadConnectorSettings() (*ConnectorSettings, error) {
	v := viper.New()
	v.SetEnvPrefix("CONNECTOR")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("HTTP_TIMEOUT_SEC", 60)
	v.SetDefault("BATCH_SIZE", 128)
	v.AutomaticEnv()

	settings := &ConnectorSettings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshalling connector settings: %v", err)
	}
	return settings, nil
}

// Init loads connector settings and initializes the global logger accordingly.
// Connectors call it first thing in main.
func Init() *ConnectorSettings {
	settings, err := LoadConnectorSettings()
	if err != nil {
		settings = &ConnectorSettings{LogLevel: "info", LogFormat: "text", HTTPTimeoutSec: 60, BatchSize: 128}
		logging.Errorf("falling back to default connector settings: %v", err)
	}
	logging.InitGlobalLogger(settings.LogLevel, settings.LogFormat == "json")
	return settings
}
