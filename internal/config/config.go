package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Default values for the relay configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultPushPath       = "/push"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultWebhookType    = "teams"
	DefaultWebhookURLEnv  = "MSTEAMS_WEBHOOK"
	DefaultWebhookProfile = "full"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultAuthHeader     = "x-relay-token"
	DefaultProvider       = "Google Cloud SCC"
	DefaultSummary        = "Security Command Center Notification"
	DefaultImageURL       = "https://img.icons8.com/color/high-priority"

	// EnvPrefix prefixes the environment variables that override file values,
	// e.g. SCCRELAY_HTTP_PORT.
	EnvPrefix = "SCCRELAY"
)

// Config is the top-level configuration parsed from config.yaml.
type Config struct {
	Relay RelayConfig `yaml:"relay"`
}

// RelayConfig holds all relay settings.
type RelayConfig struct {
	// HTTPPort is the port the push endpoint, health check and metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// PushPath is the URL path Pub/Sub push subscriptions POST to (default "/push").
	PushPath string `yaml:"push_path"`

	// Log controls the process logger.
	Log LogConfig `yaml:"log"`

	// Auth configures how push requests are authenticated.
	Auth AuthConfig `yaml:"auth"`

	// Card holds presentation settings shared by every webhook.
	Card CardConfig `yaml:"card"`

	// Webhooks lists the delivery targets. Each event is delivered to all of them.
	Webhooks []WebhookConfig `yaml:"webhooks"`

	// Kafka optionally consumes notifications from a topic in addition to push.
	Kafka KafkaConfig `yaml:"kafka"`
}

// LogConfig controls slog output.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`

	// Format is one of: json | text.
	Format string `yaml:"format"`
}

// AuthConfig controls push request authentication.
type AuthConfig struct {
	// Mode is one of: token | none.
	Mode string `yaml:"mode"`

	// TokenEnv is the name of the environment variable that holds the shared token.
	TokenEnv string `yaml:"token_env"`

	// Header is the request header carrying the token. The "token" query
	// parameter is accepted as well. Defaults to "x-relay-token".
	Header string `yaml:"header"`
}

// Token returns the expected token resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// EffectiveHeader returns the configured header name, or the default.
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAuthHeader
}

// CardConfig holds MessageCard presentation settings.
type CardConfig struct {
	// Provider prefixes the card title: "<provider> Alert! - <state> <category>".
	Provider string `yaml:"provider"`

	// Summary is the card summary text.
	Summary string `yaml:"summary"`

	// ImageURL is the activity image; empty omits it.
	ImageURL string `yaml:"image_url"`
}

// WebhookConfig defines one delivery target.
type WebhookConfig struct {
	// Name identifies the target in logs and metrics. Defaults to "<type>-<index>".
	Name string `yaml:"name"`

	// Type is the destination kind. Only "teams" is supported.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`

	// Profile selects the card fact set: full | summary.
	Profile string `yaml:"profile"`

	// Timeout bounds one POST. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout"`
}

// URL returns the webhook URL resolved from the environment.
// An unset variable yields "" and delivery to this target fails.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// KafkaConfig configures the optional Kafka trigger.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`

	// TLS enables TLS when dialing the brokers.
	TLS bool `yaml:"tls"`

	// SASL enables SASL/PLAIN when set; credentials come from the environment.
	SASL *SASLConfig `yaml:"sasl"`
}

// SASLConfig names the environment variables holding SASL/PLAIN credentials.
type SASLConfig struct {
	UsernameEnv string `yaml:"username_env"`
	PasswordEnv string `yaml:"password_env"`
}

// Credentials resolves the username and password from the environment.
func (s SASLConfig) Credentials() (username, password string) {
	return os.Getenv(s.UsernameEnv), os.Getenv(s.PasswordEnv)
}

// envOverrides are read with envconfig after the file is parsed.
// Unset variables leave the file value in place.
type envOverrides struct {
	HTTPPort     int      `envconfig:"HTTP_PORT"`
	PushPath     string   `envconfig:"PUSH_PATH"`
	LogLevel     string   `envconfig:"LOG_LEVEL"`
	LogFormat    string   `envconfig:"LOG_FORMAT"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path skips the file, so the relay can run
// from defaults and environment alone.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	fillWebhookDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Relay: RelayConfig{
			HTTPPort: DefaultHTTPPort,
			PushPath: DefaultPushPath,
			Log: LogConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
			},
			Card: CardConfig{
				Provider: DefaultProvider,
				Summary:  DefaultSummary,
				ImageURL: DefaultImageURL,
			},
			Webhooks: []WebhookConfig{{
				Name:    DefaultWebhookType,
				Type:    DefaultWebhookType,
				URLEnv:  DefaultWebhookURLEnv,
				Profile: DefaultWebhookProfile,
				Timeout: DefaultWebhookTimeout,
			}},
		},
	}
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}
	if env.HTTPPort != 0 {
		cfg.Relay.HTTPPort = env.HTTPPort
	}
	if env.PushPath != "" {
		cfg.Relay.PushPath = env.PushPath
	}
	if env.LogLevel != "" {
		cfg.Relay.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Relay.Log.Format = env.LogFormat
	}
	if len(env.KafkaBrokers) > 0 {
		cfg.Relay.Kafka.Brokers = env.KafkaBrokers
	}
	return nil
}

// fillWebhookDefaults completes webhook entries given in the file.
func fillWebhookDefaults(cfg *Config) {
	for i := range cfg.Relay.Webhooks {
		w := &cfg.Relay.Webhooks[i]
		if w.Type == "" {
			w.Type = DefaultWebhookType
		}
		if w.Profile == "" {
			w.Profile = DefaultWebhookProfile
		}
		if w.Timeout == 0 {
			w.Timeout = DefaultWebhookTimeout
		}
		if w.Name == "" {
			w.Name = fmt.Sprintf("%s-%d", w.Type, i)
		}
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	r := cfg.Relay
	if r.HTTPPort <= 0 || r.HTTPPort > 65535 {
		return fmt.Errorf("relay.http_port %d is out of range [1, 65535]", r.HTTPPort)
	}
	if len(r.PushPath) == 0 || r.PushPath[0] != '/' {
		return fmt.Errorf("relay.push_path %q must start with /", r.PushPath)
	}
	switch r.PushPath {
	case "/healthz", "/metrics":
		return fmt.Errorf("relay.push_path %q collides with a built-in route", r.PushPath)
	}
	switch r.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("relay.log.level %q unknown: want debug|info|warn|error", r.Log.Level)
	}
	switch r.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("relay.log.format %q unknown: want json|text", r.Log.Format)
	}
	switch r.Auth.Mode {
	case "token":
		if r.Auth.TokenEnv == "" {
			return fmt.Errorf("relay.auth.token_env is required when mode is token")
		}
	case "none", "":
	default:
		return fmt.Errorf("relay.auth.mode %q unknown: want token|none", r.Auth.Mode)
	}
	if len(r.Webhooks) == 0 {
		return fmt.Errorf("relay.webhooks must list at least one target")
	}
	seen := make(map[string]bool, len(r.Webhooks))
	for i, w := range r.Webhooks {
		if w.Type != "teams" {
			return fmt.Errorf("webhooks[%d] %q: unknown type %q: want teams", i, w.Name, w.Type)
		}
		if w.URLEnv == "" {
			return fmt.Errorf("webhooks[%d] %q: url_env is required", i, w.Name)
		}
		switch w.Profile {
		case "full", "summary":
		default:
			return fmt.Errorf("webhooks[%d] %q: unknown profile %q: want full|summary", i, w.Name, w.Profile)
		}
		if w.Timeout < 0 {
			return fmt.Errorf("webhooks[%d] %q: timeout must not be negative", i, w.Name)
		}
		if seen[w.Name] {
			return fmt.Errorf("webhooks[%d]: duplicate name %q", i, w.Name)
		}
		seen[w.Name] = true
	}
	if r.Kafka.Enabled {
		if len(r.Kafka.Brokers) == 0 {
			return fmt.Errorf("relay.kafka.brokers is required when kafka is enabled")
		}
		if r.Kafka.Topic == "" {
			return fmt.Errorf("relay.kafka.topic is required when kafka is enabled")
		}
		if r.Kafka.GroupID == "" {
			return fmt.Errorf("relay.kafka.group_id is required when kafka is enabled")
		}
	}
	return nil
}
