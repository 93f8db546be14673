package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"evdsrates/internal/domain"
	"evdsrates/internal/query"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultEnvFile    = ".env"
	DefaultConfigFile = "config.yaml"
)

type HTTPServer struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

type DbServer struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required,numeric"`
	User     string `mapstructure:"user" validate:"required"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name" validate:"required"`
	MaxConns int32  `mapstructure:"max_conns" validate:"gte=0"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}

type Evds struct {
	APIKey              string   `mapstructure:"api_key" validate:"required"`
	BaseEndpoint        string   `mapstructure:"base_endpoint" validate:"required,url"`
	Currencies          []string `mapstructure:"currencies" validate:"min=1,dive,len=3,alpha"`
	NullHandling        string   `mapstructure:"null_handling" validate:"oneof=previous_day last_week_avg skip"`
	SupportedCurrencies []string `mapstructure:"supported_currencies" validate:"dive,len=3,alpha"`
	DefaultStartDate    string   `mapstructure:"default_start_date" validate:"omitempty,datetime=2006-01-02"`
	DefaultEndDate      string   `mapstructure:"default_end_date" validate:"omitempty,datetime=2006-01-02"`
}

type Scheduler struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds" validate:"gt=0"`
	LookbackDays    int  `mapstructure:"lookback_days" validate:"gt=0,lte=366"`
	Workers         int  `mapstructure:"workers" validate:"gt=0"`
}

func (s Scheduler) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

type Cache struct {
	MaxItems   int64 `mapstructure:"max_items" validate:"gte=0"`
	TTLSeconds int   `mapstructure:"ttl_seconds" validate:"gte=0"`
}

func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type Logging struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	Evds       Evds       `mapstructure:"evds"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Cache      Cache      `mapstructure:"cache"`
	Logging    Logging    `mapstructure:"logging"`
}

// Defaults returns the query fallbacks taken from the evds section.
// Unset default dates fall back to today inside the builder.
func (c *AppConfig) Defaults() query.Defaults {
	return query.Defaults{
		Currencies:   c.Evds.Currencies,
		StartDate:    parseDate(c.Evds.DefaultStartDate),
		EndDate:      parseDate(c.Evds.DefaultEndDate),
		NullStrategy: domain.NullStrategy(c.Evds.NullHandling),
	}
}

// parseDate reads a validated YYYY-MM-DD value; empty yields the zero time.
func parseDate(s string) time.Time {
	t, err := time.Parse(query.InputDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func Init() (*AppConfig, error) {
	return Load(DefaultEnvFile, DefaultConfigFile)
}

// Load reads envFile and configFile when they exist, then applies env overrides.
// Validation failures are reported as domain.ErrConfiguration.
func Load(envFile, configFile string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s file: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err = v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.host", "localhost")
	v.SetDefault("db_server.port", "5432")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 30)

	v.SetDefault("evds.base_endpoint", "https://evds2.tcmb.gov.tr/service/evds/")
	v.SetDefault("evds.currencies", []string{"USD", "EUR", "GBP"})
	v.SetDefault("evds.null_handling", string(domain.PreviousDay))

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval_seconds", 3600)
	v.SetDefault("scheduler.lookback_days", 7)
	v.SetDefault("scheduler.workers", 5)

	v.SetDefault("cache.max_items", 1000)
	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func bindEnv(v *viper.Viper) {
	// evds env vars
	_ = v.BindEnv("evds.api_key", "TCMB_EVDS_API_KEY")
	_ = v.BindEnv("evds.base_endpoint", "TCMB_EVDS_BASE_ENDPOINT")
	_ = v.BindEnv("evds.null_handling", "TCMB_EVDS_NULL_HANDLING")
	_ = v.BindEnv("evds.currencies", "TCMB_EVDS_CURRENCIES")
	_ = v.BindEnv("evds.default_start_date", "TCMB_EVDS_DEFAULT_START_DATE")
	_ = v.BindEnv("evds.default_end_date", "TCMB_EVDS_DEFAULT_END_DATE")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// scheduler env vars
	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.interval_seconds", "SCHEDULER_INTERVAL_SECONDS")
	_ = v.BindEnv("scheduler.lookback_days", "SCHEDULER_LOOKBACK_DAYS")
	_ = v.BindEnv("scheduler.workers", "SCHEDULER_WORKERS")

	// logging env vars
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.file", "LOG_FILE")
}

// normalize upper-cases currency lists. A comma-separated env value arrives as one element.
func (c *AppConfig) normalize() {
	c.Evds.Currencies = splitCodes(c.Evds.Currencies)
	c.Evds.SupportedCurrencies = splitCodes(c.Evds.SupportedCurrencies)
	c.Evds.APIKey = strings.TrimSpace(c.Evds.APIKey)
	c.Evds.NullHandling = strings.ToLower(strings.TrimSpace(c.Evds.NullHandling))
	c.Evds.DefaultStartDate = strings.TrimSpace(c.Evds.DefaultStartDate)
	c.Evds.DefaultEndDate = strings.TrimSpace(c.Evds.DefaultEndDate)
}

func splitCodes(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
