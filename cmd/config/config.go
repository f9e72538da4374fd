package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "push_registrar"

var loadConfigOnce sync.Once
var configInstance AppConfig

// LoadConfig reads the configuration once per process and panics when it
// cannot. configFile overrides the config/ and /config lookup when set.
func LoadConfig(configFile string) AppConfig {
	loadConfigOnce.Do(func() {
		config, err := Load(configFile)
		if err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = config
	})

	return configInstance
}

// Load reads a fresh configuration. A missing config file is not an error:
// defaults and PUSH_REGISTRAR_* variables still apply.
func Load(configFile string) (AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("registrar")
		v.AddConfigPath("config")
		v.AddConfigPath("/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("reading config: %w", err)
		}
	}

	return AppConfig{
		General: GeneralConfig{
			LogLevel:    v.GetString("general.log_level"),
			LogFormat:   v.GetString("general.log_format"),
			Environment: v.GetString("general.environment"),
		},
		Login: LoginConfig{
			TransportApplicationID: v.GetString("login.transport_application_id"),
			AccountType:            v.GetString("login.account_type"),
		},
		Session: SessionConfig{
			Lifetime:    v.GetDuration("session.lifetime"),
			ClientTTL:   v.GetDuration("session.client_ttl"),
			HTTPTimeout: v.GetDuration("session.http_timeout"),
		},
		Registration: RegistrationConfig{
			ApplicationName: v.GetString("registration.application_name"),
			NamespacePrefix: v.GetString("registration.namespace_prefix"),
			Vendor:          v.GetString("registration.vendor"),
			APIVersion:      v.GetString("registration.api_version"),
		},
		MQTTClient: MQTTClientConfig{
			Broker:   v.GetString("mqtt_client.broker"),
			ClientID: v.GetString("mqtt_client.client_id"),
			Username: v.GetString("mqtt_client.username"),
			Password: v.GetString("mqtt_client.password"),
			DeviceID: v.GetString("mqtt_client.device_id"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		Agent: AgentConfig{
			ReconcileSchedule:    v.GetString("agent.reconcile_schedule"),
			UnregisterOnShutdown: v.GetBool("agent.unregister_on_shutdown"),
			OperationTimeout:     v.GetDuration("agent.operation_timeout"),
		},
		HTTP: HTTPConfig{
			Addr:           v.GetString("http.addr"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
		},
		Telemetry: TelemetryConfig{
			Endpoint: v.GetString("telemetry.endpoint"),
			Enabled:  v.GetBool("telemetry.enabled"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.log_format", "text")
	v.SetDefault("general.environment", "production")
	v.SetDefault("login.account_type", "default")
	v.SetDefault("session.lifetime", 2*time.Hour)
	v.SetDefault("session.client_ttl", 10*time.Minute)
	v.SetDefault("session.http_timeout", 30*time.Second)
	v.SetDefault("registration.vendor", "Android")
	v.SetDefault("registration.api_version", "v27.0")
	v.SetDefault("mqtt_client.client_id", "push-registrar")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "push-registrar.db")
	v.SetDefault("agent.reconcile_schedule", "@every 1h")
	v.SetDefault("agent.operation_timeout", time.Minute)
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("telemetry.endpoint", "localhost:4317")
}

type AppConfig struct {
	General      GeneralConfig
	Login        LoginConfig
	Session      SessionConfig
	Registration RegistrationConfig
	MQTTClient   MQTTClientConfig
	Redis        RedisConfig
	Database     DatabaseConfig
	Agent        AgentConfig
	HTTP         HTTPConfig
	Telemetry    TelemetryConfig
}

// IsLocal selects in-process stand-ins for the push transport.
func (c AppConfig) IsLocal() bool {
	return c.General.Environment == "local"
}

type GeneralConfig struct {
	LogLevel    string
	LogFormat   string
	Environment string
}

type LoginConfig struct {
	TransportApplicationID string
	AccountType            string
}

type SessionConfig struct {
	Lifetime    time.Duration
	ClientTTL   time.Duration
	HTTPTimeout time.Duration
}

type RegistrationConfig struct {
	ApplicationName string
	NamespacePrefix string
	Vendor          string
	APIVersion      string
}

type MQTTClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	DeviceID string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type AgentConfig struct {
	ReconcileSchedule    string
	UnregisterOnShutdown bool
	OperationTimeout     time.Duration
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

type TelemetryConfig struct {
	Endpoint string
	Enabled  bool
}
