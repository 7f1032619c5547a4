package configs

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort  string
	Env      string
	LogLevel string
	// LogFormat is "json" or "text".
	LogFormat string
	Locale    string

	APIURL      string
	APITimeout  time.Duration
	APIEnvelope string

	SessionStore  string
	SessionTTL    time.Duration
	SessionSecure bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	ImageSink     string
	MaxImageBytes int64
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3UseSSL      bool
	S3PublicURL   string

	KafkaBrokers       string
	KafkaTopicActivity string

	RateLimitRPS    float64
	RateLimitBurst  int
	MaxCommentDepth int
	// TrustedProxy lets X-Forwarded-For pick the client address.
	TrustedProxy bool

	// OTELEndpoint empty disables trace export.
	OTELEndpoint    string
	OTELServiceName string
	OTELSampleRatio float64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppPort:   getEnv("APP_PORT", ":8080"),
		Env:       getEnv("ENV", "local"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Locale:    getEnv("UI_LOCALE", "ko"),

		APIURL:      getEnv("API_URL", "http://localhost:3000"),
		APITimeout:  getDuration("API_TIMEOUT", 10*time.Second),
		APIEnvelope: getEnv("API_ENVELOPE", "auto"),

		SessionStore:  getEnv("SESSION_STORE", "redis"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		SessionSecure: getBool("SESSION_COOKIE_SECURE", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		ImageSink:     getEnv("IMAGE_SINK", "dataurl"),
		MaxImageBytes: int64(getInt("MAX_IMAGE_BYTES", 10<<20)),
		S3Endpoint:    getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", "minio"),
		S3SecretKey:   getEnv("S3_SECRET_KEY", "minio123"),
		S3Bucket:      getEnv("S3_BUCKET", "post-images"),
		S3UseSSL:      getBool("S3_USE_SSL", false),
		S3PublicURL:   os.Getenv("S3_PUBLIC_URL"),

		KafkaBrokers:       os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		KafkaTopicActivity: getEnv("KAFKA_TOPIC_ACTIVITY", "frontend.activity"),

		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 10),
		MaxCommentDepth: getInt("MAX_COMMENT_DEPTH", 8),
		TrustedProxy:    getBool("TRUSTED_PROXY", false),

		OTELEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "social-web"),
		OTELSampleRatio: getFloat("OTEL_TRACES_SAMPLER_ARG", 1),
	}
	if cfg.S3PublicURL == "" {
		cfg.S3PublicURL = cfg.S3Endpoint
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL %q is not an absolute url", c.APIURL)
	}
	switch c.APIEnvelope {
	case "auto", "required", "none":
	default:
		return fmt.Errorf("API_ENVELOPE must be auto, required or none, got %q", c.APIEnvelope)
	}
	switch c.SessionStore {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_STORE must be redis or memory, got %q", c.SessionStore)
	}
	switch c.ImageSink {
	case "dataurl", "s3":
	default:
		return fmt.Errorf("IMAGE_SINK must be dataurl or s3, got %q", c.ImageSink)
	}
	switch c.Locale {
	case "ko", "en":
	default:
		return fmt.Errorf("UI_LOCALE must be ko or en, got %q", c.Locale)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if c.OTELSampleRatio < 0 || c.OTELSampleRatio > 1 {
		return fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be within [0,1]")
	}
	return nil
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("AppPort=%s, Env=%s, APIURL=%s, SessionStore=%s, Redis=%s, ImageSink=%s, S3Endpoint=%s, S3AccessKey=%s, S3Bucket=%s, Kafka=%q",
		c.AppPort, c.Env, c.APIURL, c.SessionStore, c.RedisAddr(), c.ImageSink, c.S3Endpoint, c.S3AccessKey, c.S3Bucket, c.KafkaBrokers)
}
