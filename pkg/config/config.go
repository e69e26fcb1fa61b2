package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App             AppConfig      `mapstructure:"app"`
	Server          ServerConfig   `mapstructure:"server"`
	JournalDatabase DatabaseConfig `mapstructure:"journal_database"` // Audit journal (journal-worker only)
	Redis           RedisConfig    `mapstructure:"redis"`
	Kafka           KafkaConfig    `mapstructure:"kafka"`
	JWT             JWTConfig      `mapstructure:"jwt"`
	OTel            OTelConfig     `mapstructure:"otel"`
	Advisor         AdvisorConfig  `mapstructure:"advisor"`
	Dispatch        DispatchConfig `mapstructure:"dispatch"`
	Seed            SeedConfig     `mapstructure:"seed"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdempotencyTTL is how long a completed ticket-creation response is replayable
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda connection settings
type KafkaConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Brokers       []string `mapstructure:"brokers"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
	ClientID      string   `mapstructure:"client_id"`
	EventsTopic   string   `mapstructure:"events_topic"`
	DLQTopic      string   `mapstructure:"dlq_topic"`
}

// JWTConfig holds JWT settings for the admin role gate
type JWTConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	ServiceName    string  `mapstructure:"service_name"`
	CollectorAddr  string  `mapstructure:"collector_addr"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
	MetricsEnabled bool    `mapstructure:"metrics_enabled"`
}

// AdvisorConfig holds settings for the external assignment/diagnostic advisor
type AdvisorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Breaker opens after this many consecutive failures
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
}

// DispatchConfig holds the engine's fixed tables and point values
type DispatchConfig struct {
	ZoneOwnerA           string `mapstructure:"zone_owner_a"`
	ZoneOwnerB           string `mapstructure:"zone_owner_b"`
	ZoneOwnerC           string `mapstructure:"zone_owner_c"`
	ZoneOwnerD           string `mapstructure:"zone_owner_d"`
	TakeoverBonus        int    `mapstructure:"takeover_bonus"`
	TaskCompletionPoints int    `mapstructure:"task_completion_points"`
	ChecklistPoints      int    `mapstructure:"checklist_points"`
}

// ZoneOwners returns the default zone responsibility table keyed by zone label
func (d *DispatchConfig) ZoneOwners() map[string]string {
	return map[string]string{
		"A": d.ZoneOwnerA,
		"B": d.ZoneOwnerB,
		"C": d.ZoneOwnerC,
		"D": d.ZoneOwnerD,
	}
}

// SeedConfig controls how the asset registry and roster are populated at start
type SeedConfig struct {
	File       string `mapstructure:"file"`
	AssetCount int    `mapstructure:"asset_count"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// A missing .env is fine, environment variables still apply
	_ = v.ReadInConfig()

	return load(v)
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "fm-portal")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "4.3.2")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Journal database (journal-worker)
	v.SetDefault("JOURNAL_DATABASE_HOST", "localhost")
	v.SetDefault("JOURNAL_DATABASE_PORT", 5432)
	v.SetDefault("JOURNAL_DATABASE_USER", "postgres")
	v.SetDefault("JOURNAL_DATABASE_PASSWORD", "postgres")
	v.SetDefault("JOURNAL_DATABASE_DBNAME", "dispatch_journal")
	v.SetDefault("JOURNAL_DATABASE_SSLMODE", "disable")
	v.SetDefault("JOURNAL_DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("JOURNAL_DATABASE_MIN_CONNS", 2)
	v.SetDefault("JOURNAL_DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("JOURNAL_DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis defaults
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")
	v.SetDefault("REDIS_IDEMPOTENCY_TTL", "10m")

	// Kafka defaults
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "dispatch-journal")
	v.SetDefault("KAFKA_CLIENT_ID", "fm-portal")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "dispatch-events")
	v.SetDefault("KAFKA_DLQ_TOPIC", "dispatch-events.dlq")

	// JWT defaults
	v.SetDefault("JWT_ENABLED", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "fm-portal")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "dispatch-service")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
	v.SetDefault("OTEL_METRICS_ENABLED", false)

	// Advisor defaults
	v.SetDefault("ADVISOR_ENABLED", false)
	v.SetDefault("ADVISOR_URL", "")
	v.SetDefault("ADVISOR_API_KEY", "")
	v.SetDefault("ADVISOR_MODEL", "gemini-3-flash-preview")
	v.SetDefault("ADVISOR_TIMEOUT", "3s")
	v.SetDefault("ADVISOR_BREAKER_THRESHOLD", 3)
	v.SetDefault("ADVISOR_BREAKER_COOLDOWN", "30s")

	// Dispatch defaults
	v.SetDefault("DISPATCH_ZONE_OWNER_A", "Bilal")
	v.SetDefault("DISPATCH_ZONE_OWNER_B", "Asad")
	v.SetDefault("DISPATCH_ZONE_OWNER_C", "Taimoor")
	v.SetDefault("DISPATCH_ZONE_OWNER_D", "Saboor")
	v.SetDefault("DISPATCH_TAKEOVER_BONUS", 20)
	v.SetDefault("DISPATCH_TASK_COMPLETION_POINTS", 10)
	v.SetDefault("DISPATCH_CHECKLIST_POINTS", 1)

	// Seed defaults
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("SEED_ASSET_COUNT", 163)
}

func bindConfig(v *viper.Viper, cfg *Config) error {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// Journal database
	cfg.JournalDatabase.Host = v.GetString("JOURNAL_DATABASE_HOST")
	cfg.JournalDatabase.Port = v.GetInt("JOURNAL_DATABASE_PORT")
	cfg.JournalDatabase.User = v.GetString("JOURNAL_DATABASE_USER")
	cfg.JournalDatabase.Password = v.GetString("JOURNAL_DATABASE_PASSWORD")
	cfg.JournalDatabase.DBName = v.GetString("JOURNAL_DATABASE_DBNAME")
	cfg.JournalDatabase.SSLMode = v.GetString("JOURNAL_DATABASE_SSLMODE")
	cfg.JournalDatabase.MaxOpenConns = v.GetInt("JOURNAL_DATABASE_MAX_OPEN_CONNS")
	cfg.JournalDatabase.MinConns = v.GetInt("JOURNAL_DATABASE_MIN_CONNS")
	cfg.JournalDatabase.ConnMaxLifetime = v.GetDuration("JOURNAL_DATABASE_CONN_MAX_LIFETIME")
	cfg.JournalDatabase.ConnMaxIdleTime = v.GetDuration("JOURNAL_DATABASE_CONN_MAX_IDLE_TIME")

	// Redis
	cfg.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")
	cfg.Redis.IdempotencyTTL = v.GetDuration("REDIS_IDEMPOTENCY_TTL")

	// Kafka
	cfg.Kafka.Enabled = v.GetBool("KAFKA_ENABLED")
	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.Kafka.ConsumerGroup = v.GetString("KAFKA_CONSUMER_GROUP")
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")
	cfg.Kafka.EventsTopic = v.GetString("KAFKA_EVENTS_TOPIC")
	cfg.Kafka.DLQTopic = v.GetString("KAFKA_DLQ_TOPIC")

	// JWT
	cfg.JWT.Enabled = v.GetBool("JWT_ENABLED")
	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.Issuer = v.GetString("JWT_ISSUER")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")
	cfg.OTel.MetricsEnabled = v.GetBool("OTEL_METRICS_ENABLED")

	// Advisor
	cfg.Advisor.Enabled = v.GetBool("ADVISOR_ENABLED")
	cfg.Advisor.URL = v.GetString("ADVISOR_URL")
	cfg.Advisor.APIKey = v.GetString("ADVISOR_API_KEY")
	cfg.Advisor.Model = v.GetString("ADVISOR_MODEL")
	cfg.Advisor.Timeout = v.GetDuration("ADVISOR_TIMEOUT")
	cfg.Advisor.BreakerThreshold = v.GetInt("ADVISOR_BREAKER_THRESHOLD")
	cfg.Advisor.BreakerCooldown = v.GetDuration("ADVISOR_BREAKER_COOLDOWN")

	// Dispatch
	cfg.Dispatch.ZoneOwnerA = v.GetString("DISPATCH_ZONE_OWNER_A")
	cfg.Dispatch.ZoneOwnerB = v.GetString("DISPATCH_ZONE_OWNER_B")
	cfg.Dispatch.ZoneOwnerC = v.GetString("DISPATCH_ZONE_OWNER_C")
	cfg.Dispatch.ZoneOwnerD = v.GetString("DISPATCH_ZONE_OWNER_D")
	cfg.Dispatch.TakeoverBonus = v.GetInt("DISPATCH_TAKEOVER_BONUS")
	cfg.Dispatch.TaskCompletionPoints = v.GetInt("DISPATCH_TASK_COMPLETION_POINTS")
	cfg.Dispatch.ChecklistPoints = v.GetInt("DISPATCH_CHECKLIST_POINTS")

	// Seed
	cfg.Seed.File = v.GetString("SEED_FILE")
	cfg.Seed.AssetCount = v.GetInt("SEED_ASSET_COUNT")

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when JWT_ENABLED is true")
	}

	if c.Advisor.Enabled && c.Advisor.URL == "" {
		return fmt.Errorf("ADVISOR_URL is required when ADVISOR_ENABLED is true")
	}
	if c.Advisor.Timeout <= 0 {
		return fmt.Errorf("ADVISOR_TIMEOUT must be positive")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}

	for zone, owner := range c.Dispatch.ZoneOwners() {
		if strings.TrimSpace(owner) == "" {
			return fmt.Errorf("default owner for zone %s is required", zone)
		}
	}

	if c.Dispatch.TakeoverBonus < 0 || c.Dispatch.TaskCompletionPoints < 0 || c.Dispatch.ChecklistPoints < 0 {
		return fmt.Errorf("dispatch point values must not be negative")
	}

	if c.Seed.File == "" && c.Seed.AssetCount <= 0 {
		return fmt.Errorf("SEED_ASSET_COUNT must be positive when no SEED_FILE is given")
	}

	return nil
}

// ValidateJournalDatabase validates journal database configuration
func (c *Config) ValidateJournalDatabase() error {
	if c.JournalDatabase.Host == "" {
		return fmt.Errorf("JOURNAL_DATABASE_HOST is required")
	}
	if c.JournalDatabase.DBName == "" {
		return fmt.Errorf("JOURNAL_DATABASE_DBNAME is required")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
