package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	RequestTimeout  time.Duration
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	SessionCookie   string
	AdminToken      string
	DatabaseURL     string
	Redis           RedisConfig
	Sites           SitesConfig
	Forms           FormsConfig
	Audit           AuditConfig
	ExtensionConfig string
	// FormLanguageScope is the default scope of form discovery: "request" or "all".
	FormLanguageScope string
	// DevMode allows running without JWT_SIGNING_KEY using DevSigningKey.
	DevMode bool
}

// DevSigningKey signs sessions in dev mode only. It is public and must never
// guard real profile data.
const DevSigningKey = "dev-secret-key-change-in-production"

// ErrMissingSigningKey is returned when no signing key is configured outside dev mode.
var ErrMissingSigningKey = errors.New("JWT_SIGNING_KEY is required (set PREFILL_DEV=1 to use the development key)")

// SigningKey returns the session signing key. The second result reports
// whether the development key was substituted.
func (s Server) SigningKey() (string, bool, error) {
	if s.JWTSigningKey != "" {
		return s.JWTSigningKey, false, nil
	}
	if s.DevMode {
		return DevSigningKey, true, nil
	}
	return "", false, ErrMissingSigningKey
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SitesConfig locates site configuration documents. Redis wins when enabled.
type SitesConfig struct {
	Dir            string
	ReloadInterval time.Duration
}

// FormsConfig locates form definitions.
type FormsConfig struct {
	ExtensionDir string
	StorageDir   string
	S3Bucket     string
	S3Prefix     string
	S3Endpoint   string
	S3Region     string
	S3AccessKey  string
	S3SecretKey  string
}

// AuditConfig configures the audit sink. Without brokers events stay in memory.
type AuditConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           getEnv("PREFILL_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		JWTSigningKey:  strings.TrimSpace(os.Getenv("JWT_SIGNING_KEY")),
		JWTIssuer:      getEnv("JWT_ISSUER", "cms"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "formprefill"),
		SessionCookie:  getEnv("SESSION_COOKIE", "fe_typo_user"),
		AdminToken:     os.Getenv("ADMIN_API_TOKEN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Sites: SitesConfig{
			Dir:            getEnv("SITE_CONFIG_DIR", "config/sites"),
			ReloadInterval: getDuration("SITE_CONFIG_RELOAD_INTERVAL", time.Minute),
		},
		Forms: FormsConfig{
			ExtensionDir: os.Getenv("FORM_EXTENSION_DIR"),
			StorageDir:   os.Getenv("FORM_STORAGE_DIR"),
			S3Bucket:     os.Getenv("FORM_S3_BUCKET"),
			S3Prefix:     os.Getenv("FORM_S3_PREFIX"),
			S3Endpoint:   os.Getenv("FORM_S3_ENDPOINT"),
			S3Region:     getEnv("FORM_S3_REGION", "us-east-1"),
			S3AccessKey:  os.Getenv("FORM_S3_ACCESS_KEY"),
			S3SecretKey:  os.Getenv("FORM_S3_SECRET_KEY"),
		},
		Audit: AuditConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("AUDIT_TOPIC", "formprefill.audit"),
		},
		ExtensionConfig:   os.Getenv("EXTENSION_CONFIG_FILE"),
		FormLanguageScope: getEnv("PREFILL_FORM_LANGUAGE_SCOPE", "request"),
		DevMode:           getBool("PREFILL_DEV"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
