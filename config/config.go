package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// GlobalConfig application configuration
type GlobalConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Listing    ListingConfig    `mapstructure:"listing"`
	Expiration ExpirationConfig `mapstructure:"expiration"`
	Nats       NatsConfig       `mapstructure:"nats"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Mail       MailConfig       `mapstructure:"mail"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	BaseURL        string        `mapstructure:"base_url"`
	CronSecret     string        `mapstructure:"cron_secret"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig driver is one of mysql, postgres, sqlite
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogSQL          bool          `mapstructure:"log_sql"`
}

// ListingConfig page sizes of the listing endpoints
type ListingConfig struct {
	JobPageSize     int `mapstructure:"job_page_size"`
	CompanyPageSize int `mapstructure:"company_page_size"`
	OffsetPageSize  int `mapstructure:"offset_page_size"`
}

// ExpirationConfig job expiration policy.
// Interval 0 disables the in-process scheduler.
type ExpirationConfig struct {
	Window   time.Duration `mapstructure:"window"`
	Interval time.Duration `mapstructure:"interval"`
}

// NatsConfig an empty URL disables event publishing
type NatsConfig struct {
	URL            string `mapstructure:"url"`
	EmailSubject   string `mapstructure:"email_subject"`
	PublishSubject string `mapstructure:"publish_subject"`
}

// ClickHouseConfig an empty Addr disables view analytics
type ClickHouseConfig struct {
	Addr     string `mapstructure:"addr"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MailConfig addresses and template ids of outgoing mail
type MailConfig struct {
	From               string `mapstructure:"from"`
	ContactTo          string `mapstructure:"contact_to"`
	NewsletterTemplate string `mapstructure:"newsletter_template"`
}

// LogConfig logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cron_secret", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", 15*time.Second)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "root:123@tcp(localhost:3306)/mycareerlist?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_sql", false)

	v.SetDefault("listing.job_page_size", 13)
	v.SetDefault("listing.company_page_size", 32)
	v.SetDefault("listing.offset_page_size", 16)

	v.SetDefault("expiration.window", 30*24*time.Hour)
	v.SetDefault("expiration.interval", time.Duration(0))

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.email_subject", "mail.send")
	v.SetDefault("nats.publish_subject", "job.published")

	v.SetDefault("clickhouse.addr", "")
	v.SetDefault("clickhouse.database", "default")
	v.SetDefault("clickhouse.username", "default")
	v.SetDefault("clickhouse.password", "")

	v.SetDefault("mail.from", "noreply@mycareerlist.com")
	v.SetDefault("mail.contact_to", "hello@mycareerlist.com")
	v.SetDefault("mail.newsletter_template", "weekly-digest")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// InitConfig loads the configuration.
// Values come from defaults, then config.yaml in configDir (optional),
// then MCL_* environment variables (.env is loaded first).
func InitConfig(configDir string) (*GlobalConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("MCL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg GlobalConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *GlobalConfig) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Listing.JobPageSize <= 0 || c.Listing.CompanyPageSize <= 0 || c.Listing.OffsetPageSize <= 0 {
		return errors.New("listing page sizes must be positive")
	}
	if c.Expiration.Window <= 0 {
		return errors.New("expiration.window must be positive")
	}
	return nil
}
