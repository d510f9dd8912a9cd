// Ininicializing common application configuration
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Email    EmailConfig    `mapstructure:"email"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	AppVersion   string `json:"appVersion"`
	Host         string `json:"host" validate:"required"`
	Port         string `json:"port" validate:"required"`
	Timeout      time.Duration
	Idle_timeout time.Duration
	Env          string `json:"environment"`
	Mode         string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `mapstructure:"enabled"`

	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

type EmailConfig struct {
	From     string        `mapstructure:"from"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// NotifierConfig bounds the three periodic duties of the notification
// scheduler: delivery drain, staleness scan and purge.
type NotifierConfig struct {
	DispatchInterval  time.Duration `mapstructure:"dispatch_interval"`
	StaleScanInterval time.Duration `mapstructure:"stale_scan_interval"`
	PurgeInterval     time.Duration `mapstructure:"purge_interval"`
	BatchSize         int           `mapstructure:"batch_size"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RetentionDays     int           `mapstructure:"retention_days"`
}

type AppConfig struct {
	ReminderLead time.Duration `mapstructure:"reminder_lead"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.enabled", false)

	v.SetDefault("email.port", 587)
	v.SetDefault("email.timeout", 10*time.Second)

	v.SetDefault("notifier.dispatch_interval", 5*time.Minute)
	v.SetDefault("notifier.stale_scan_interval", 24*time.Hour)
	v.SetDefault("notifier.purge_interval", 7*24*time.Hour)
	v.SetDefault("notifier.batch_size", 50)
	v.SetDefault("notifier.max_attempts", 5)
	v.SetDefault("notifier.retention_days", 30)

	v.SetDefault("app.reminder_lead", 24*time.Hour)
	v.SetDefault("app.cache_ttl", 15*time.Minute)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
