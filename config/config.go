package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Env string

const (
	Dev        Env = "development"
	Test       Env = "test"
	Preview    Env = "preview"
	Production Env = "production"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

type Config struct {
	AppName string
	ENV     Env `validate:"oneof=development test preview production"`
	AppPort int `validate:"gt=0,lte=65535"`

	LogLevel string
	// LogFile enables a rotating file sink next to stderr.
	LogFile string

	CORSAllowedOrigins []string
	MaxBodyBytes       int64 `validate:"gt=0"`

	Affiliate AffiliateConfig
	Resolver  ResolverConfig
	Convert   ConvertConfig

	// Redis (optional; enabled only when Host is set).
	Redis RedisConfig

	// RabbitMQ (optional; enabled only when URL is set).
	RabbitMQ RabbitMQConfig
}

type AffiliateConfig struct {
	AppID    string
	Secret   string
	Endpoint string        `validate:"required,url"`
	SubID    string        `validate:"required"`
	Timeout  time.Duration `validate:"gt=0"`
}

type ResolverConfig struct {
	MaxRedirects int           `validate:"gte=0,lte=20"`
	Timeout      time.Duration `validate:"gt=0"`
	UserAgent    string
}

type ConvertConfig struct {
	MaxConcurrency int `validate:"gt=0,lte=256"`
}

type RedisConfig struct {
	User     string
	Password string
	Host     string
	Port     int `validate:"gt=0,lte=65535"`
	Scheme   string
	// ShortLinkTTL bounds how long an affiliate short link is reused.
	ShortLinkTTL time.Duration `validate:"gt=0"`
}

type RabbitMQConfig struct {
	URL             string
	Exchange        string
	RoutingKey      string
	DeclareTopology bool
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "peasydeal-link-converter")
	v.SetDefault("APP_ENV", string(Dev))
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("HTTP_MAX_BODY_BYTES", 1<<20)

	v.SetDefault("SHOPEE_AFFILIATE_APP_ID", "")
	v.SetDefault("SHOPEE_AFFILIATE_SECRET", "")
	v.SetDefault("SHOPEE_AFFILIATE_ENDPOINT", "https://open-api.affiliate.shopee.vn/graphql")
	v.SetDefault("SHOPEE_AFFILIATE_SUB_ID", "peasydeal")
	v.SetDefault("SHOPEE_AFFILIATE_TIMEOUT", "10s")

	v.SetDefault("RESOLVER_MAX_REDIRECTS", 5)
	v.SetDefault("RESOLVER_TIMEOUT", "10s")
	v.SetDefault("RESOLVER_USER_AGENT", DefaultUserAgent)

	v.SetDefault("CONVERT_MAX_CONCURRENCY", 16)

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")
	v.SetDefault("SHORTLINK_CACHE_TTL", "24h")

	v.SetDefault("RABBITMQ_EXCHANGE", "events")
	v.SetDefault("RABBITMQ_ROUTING_KEY", "linkconv.text.converted.v1")
	v.SetDefault("RABBITMQ_DECLARE_TOPOLOGY", false)

	return v
}

func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName: v.GetString("APP_NAME"),
		ENV:     Env(strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  strings.TrimSpace(v.GetString("LOG_FILE")),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MaxBodyBytes:       v.GetInt64("HTTP_MAX_BODY_BYTES"),

		Affiliate: AffiliateConfig{
			AppID:    strings.TrimSpace(v.GetString("SHOPEE_AFFILIATE_APP_ID")),
			Secret:   strings.TrimSpace(v.GetString("SHOPEE_AFFILIATE_SECRET")),
			Endpoint: strings.TrimSpace(v.GetString("SHOPEE_AFFILIATE_ENDPOINT")),
			SubID:    strings.TrimSpace(v.GetString("SHOPEE_AFFILIATE_SUB_ID")),
			Timeout:  v.GetDuration("SHOPEE_AFFILIATE_TIMEOUT"),
		},

		Resolver: ResolverConfig{
			MaxRedirects: v.GetInt("RESOLVER_MAX_REDIRECTS"),
			Timeout:      v.GetDuration("RESOLVER_TIMEOUT"),
			UserAgent:    v.GetString("RESOLVER_USER_AGENT"),
		},

		Convert: ConvertConfig{
			MaxConcurrency: v.GetInt("CONVERT_MAX_CONCURRENCY"),
		},

		Redis: RedisConfig{
			User:         v.GetString("REDIS_USER"),
			Password:     v.GetString("REDIS_PASSWORD"),
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetInt("REDIS_PORT"),
			Scheme:       v.GetString("REDIS_SCHEME"),
			ShortLinkTTL: v.GetDuration("SHORTLINK_CACHE_TTL"),
		},

		RabbitMQ: RabbitMQConfig{
			URL:             strings.TrimSpace(v.GetString("RABBITMQ_URL")),
			Exchange:        v.GetString("RABBITMQ_EXCHANGE"),
			RoutingKey:      v.GetString("RABBITMQ_ROUTING_KEY"),
			DeclareTopology: v.GetBool("RABBITMQ_DECLARE_TOPOLOGY"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// AffiliateEnabled reports whether both credentials are set to real values.
func (c *Config) AffiliateEnabled() bool {
	return !IsPlaceholder(c.Affiliate.AppID) && !IsPlaceholder(c.Affiliate.Secret)
}

var placeholders = map[string]bool{
	"":            true,
	"your_app_id": true,
	"your_secret": true,
	"changeme":    true,
	"placeholder": true,
}

// IsPlaceholder reports whether a credential value is empty or a template value.
func IsPlaceholder(v string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(v))]
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
