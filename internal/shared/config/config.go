package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBucket   = "organization-documents"
	defaultMaxBytes = 10 << 20 // 10MB
	defaultAllowed  = "application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain,image/png,image/jpeg"
	defaultOrigins  = "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000,http://localhost:5000,http://127.0.0.1:5000"
)

// Platform is a base URL and key pair for the hosted platform.
type Platform struct {
	URL string
	Key string
}

// Configured reports whether both URL and key are present.
func (p Platform) Configured() bool {
	return p.URL != "" && p.Key != ""
}

// Timeouts bounds each outbound call made while serving a request.
type Timeouts struct {
	Identity time.Duration
	Profile  time.Duration
	Storage  time.Duration
	Insert   time.Duration
}

// DBPool overrides database pool defaults. Zero fields keep the runtime default.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Config holds application configuration. It is built once by Load and
// passed by value; nothing reads the environment after startup.
type Config struct {
	Env             string
	Port            string
	LogLevel        string
	CORSAllowOrigin []string

	// Platform serves identity checks and profile lookups.
	Platform Platform
	// Upload serves storage writes and document inserts.
	Upload Platform

	Bucket           string
	MaxUploadBytes   int64
	AllowedMIMETypes []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string

	DocumentsStore string
	ProfilesStore  string
	DatabaseURL    string
	ProfilesTable  string
	DocumentsTable string
	DBPool         DBPool
	// Lambda is set when running inside AWS Lambda.
	Lambda bool

	Timeouts Timeouts
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Existing
	// process variables are never overwritten.
	for _, path := range []string{".env", "cmd/.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				log.Printf("config: load %s: %v", path, err)
			}
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	platform := Platform{
		URL: strings.TrimRight(firstEnv("SUPABASE_URL", "SUPABASE_URL_DEV", "SUPABASE_URL_PROD"), "/"),
		Key: firstEnv("SUPABASE_KEY", "SUPABASE_KEY_DEV", "SUPABASE_KEY_PROD"),
	}
	upload := Platform{
		URL: strings.TrimRight(getEnv("SUPABASE_UPLOAD_URL", platform.URL), "/"),
		Key: getEnv("SUPABASE_UPLOAD_KEY", platform.Key),
	}

	cfg := Config{
		Env:              env,
		Port:             getEnv("PORT", "5000"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", defaultOrigins)),
		Platform:         platform,
		Upload:           upload,
		Bucket:           getEnv("ORG_DOCUMENT_BUCKET", defaultBucket),
		MaxUploadBytes:   getEnvInt64("ORG_DOC_MAX_BYTES", defaultMaxBytes),
		AllowedMIMETypes: splitAndTrim(getEnv("ORG_DOC_ALLOWED_MIME", defaultAllowed)),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "supabase")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./uploads"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		S3PublicBaseURL:  getEnv("S3_PUBLIC_BASE_URL", ""),
		DocumentsStore:   normalizeRecordStore(getEnv("DOCUMENTS_STORE", "postgrest")),
		ProfilesStore:    normalizeRecordStore(getEnv("PROFILES_STORE", "postgrest")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ProfilesTable:    getEnv("PROFILES_TABLE", "UserProfiles"),
		DocumentsTable:   getEnv("DOCUMENTS_TABLE", "Organization_Documents"),
		DBPool: DBPool{
			MaxOpenConns:    int(getEnvInt64("DB_MAX_OPEN_CONNS", 0)),
			MaxIdleConns:    int(getEnvInt64("DB_MAX_IDLE_CONNS", 0)),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 0),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 0),
			PingTimeout:     getEnvDuration("DB_PING_TIMEOUT", 0),
		},
		Lambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
		Timeouts: Timeouts{
			Identity: getEnvDuration("IDENTITY_TIMEOUT", 5*time.Second),
			Profile:  getEnvDuration("PROFILE_TIMEOUT", 5*time.Second),
			Storage:  getEnvDuration("STORAGE_TIMEOUT", 15*time.Second),
			Insert:   getEnvDuration("INSERT_TIMEOUT", 10*time.Second),
		},
	}

	if env == "production" && !platform.Configured() {
		log.Printf("SUPABASE_URL and SUPABASE_KEY are required in production")
	}
	return cfg
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "supabase"
	}
}

func normalizeRecordStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "memory":
		return "memory"
	default:
		return "postgrest"
	}
}
