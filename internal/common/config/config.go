// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Matching     MatchingConfig          `mapstructure:"matching"`
	Dispatch     DispatchConfig          `mapstructure:"dispatch"`
	Outreach     OutreachConfig          `mapstructure:"outreach"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPPort    int    `mapstructure:"http_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single address shorthand
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

const (
	ProviderSourcePostgres      = "postgres"
	ProviderSourceElasticsearch = "elasticsearch"
)

// MatchingConfig drives provider lookup and ranking.
type MatchingConfig struct {
	ProviderSource      string         `mapstructure:"provider_source"`
	ProviderTable       string         `mapstructure:"provider_table"`
	ProviderIndex       string         `mapstructure:"provider_index"`
	ContactEmailColumns []string       `mapstructure:"contact_email_columns"`
	Weights             RankingWeights `mapstructure:"weights"`
	MinFuzzyTokenLen    int            `mapstructure:"min_fuzzy_token_len"`
	SchemaCacheTTL      time.Duration  `mapstructure:"schema_cache_ttl"`
	DefaultLimit        int            `mapstructure:"default_limit"`
}

type RankingWeights struct {
	ProcessMatch   int `mapstructure:"process_match"`
	GeoMatch       int `mapstructure:"geo_match"`
	KnownContact   int `mapstructure:"known_contact"`
	VerifiedActive int `mapstructure:"verified_active"`
}

const (
	DedupeMemory = "memory"
	DedupeRedis  = "redis"
)

type DispatchConfig struct {
	DefaultSubmissionURL string        `mapstructure:"default_submission_url"`
	DiagnosticTTL        time.Duration `mapstructure:"diagnostic_ttl"`
	DedupeBackend        string        `mapstructure:"dedupe_backend"`
	EnableAPIAdapter     bool          `mapstructure:"enable_api_adapter"`
}

type OutreachConfig struct {
	SLA        SLAConfig   `mapstructure:"sla"`
	Sweep      SweepConfig `mapstructure:"sweep"`
	AlertTopic string      `mapstructure:"alert_topic"`
}

type SLAConfig struct {
	QueuedMaxHours         float64 `mapstructure:"queued_max_hours"`
	SentNoReplyMaxHours    float64 `mapstructure:"sent_no_reply_max_hours"`
	ErrorAlwaysNeedsAction *bool   `mapstructure:"error_always_needs_action"`
}

// SweepConfig controls the in-process SLA sweep. A zero interval disables it.
type SweepConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
	Limit       int           `mapstructure:"limit"`
}

// IntegrationConfig holds settings for external delivery services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
