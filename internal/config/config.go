package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Gateway    GatewayConfig    `validate:"required"`
	Funnel     FunnelConfig     `validate:"required"`
	Session    SessionConfig
}

type DeploymentConfig struct {
	Mode string `validate:"required,oneof=local dev prod"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level string `validate:"required"`
}

// GatewayConfig configures the order/payment backend client
type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	// Timeout bounds a single request; RetryMax/RetryWaitMax bound the
	// time-boxed retry policy so a degraded backend never stalls the customer
	Timeout      time.Duration `validate:"min=0"`
	RetryMax     int           `mapstructure:"retry_max" validate:"min=0,max=5"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
}

// FunnelConfig points at the funnel document served to this deployment
type FunnelConfig struct {
	ConfigPath string `mapstructure:"config_path" validate:"required"`
}

// SessionConfig controls the per-visitor checkout session store
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/funnelkit")

	v.SetEnvPrefix("FUNNELKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "local")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.retry_max", 2)
	v.SetDefault("gateway.retry_wait_max", 2*time.Second)
	v.SetDefault("session.ttl", 45*time.Minute)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "local"},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: "debug"},
		Gateway: GatewayConfig{
			BaseURL:      "http://localhost:9000/wp-json/hp-rw/v1",
			Timeout:      30 * time.Second,
			RetryMax:     2,
			RetryWaitMax: 2 * time.Second,
		},
		Funnel: FunnelConfig{ConfigPath: "./funnel.json"},
		Session: SessionConfig{
			TTL:             45 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
	}
}
