package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"trendsync/internal/validation"
)

// ErrMissingCredential is returned when a public data API key is not configured.
var ErrMissingCredential = errors.New("public data API key is not configured")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis backs the API rate limiter when set; in-memory otherwise.
	RedisURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// SyncAPIToken guards POST /api/v1/trends/sync when non-empty.
	SyncAPIToken string

	// RegionsFile is the YAML lookup table path (env: REGIONS_FILE).
	RegionsFile string

	// Administrative-code lookup API (StanReginCd)
	LawdAPIKey     string
	LawdAPIURL     string
	LawdAPITimeout time.Duration

	// Vendor/listing directory API (sdsc2)
	PublicAPIKey     string
	PublicAPIBase    string
	PublicAPITimeout time.Duration
	SDSCParamKeyName string // area code parameter name, default "key"
	SDSCDivID        string // optional divId parameter

	// Transport
	PublicAPITLSVersion string // "1.2" or "1.3"
	PublicAPICAFile     string // extra trusted roots appended to the system pool
	PublicAPIMaxRetries int
	PublicAPIRPS        float64
	CurlPath            string // empty disables the subprocess fallback

	// Area code resolution
	AreaCodePageSize int
	AreaCodeMaxPages int
	VendorRows       int

	// Scheduled sync
	TrendSyncSchedule string   // cron expression, empty disables the job
	TrendSyncRegions  []string // env: TREND_SYNC_REGIONS, comma-separated
	TrendSyncLimit    int
	TrendSyncReplace  bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:          getEnv("ENV", "development"),
		ServerAddr:   getEnv("SERVER_ADDR", ":3000"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:  getEnv("DATABASE_URL", "postgres://localhost:5432/trendsync?sslmode=disable"),
		RedisURL:     getEnv("REDIS_URL", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", ""),
		SyncAPIToken: getEnv("SYNC_API_TOKEN", ""),
		RegionsFile:  getEnv("REGIONS_FILE", ""),

		LawdAPIKey:     getEnv("LAWD_API_KEY", ""),
		LawdAPIURL:     getEnv("LAWD_API_URL", "https://apis.data.go.kr/1741000/StanReginCd/getStanReginCdList"),
		LawdAPITimeout: getEnvSeconds("LAWD_API_TIMEOUT", 6*time.Second),

		PublicAPIKey:     getEnv("PUBLIC_API_KEY", ""),
		PublicAPIBase:    getEnv("PUBLIC_API_BASE", "https://apis.data.go.kr/B553077/api/open/sdsc2"),
		PublicAPITimeout: getEnvSeconds("PUBLIC_API_TIMEOUT", 6*time.Second),
		SDSCParamKeyName: getEnv("SDSC_PARAM_KEY_NAME", "key"),
		SDSCDivID:        getEnv("SDSC_DIV_ID", ""),

		PublicAPITLSVersion: getEnv("PUBLIC_API_TLS_VERSION", "1.2"),
		PublicAPICAFile:     getEnv("PUBLIC_API_CA_FILE", ""),
		PublicAPIMaxRetries: getEnvInt("PUBLIC_API_MAX_RETRIES", 2),
		PublicAPIRPS:        getEnvFloat("PUBLIC_API_RPS", 5),
		CurlPath:            getEnv("CURL_PATH", "curl"),

		AreaCodePageSize: getEnvInt("AREA_CODE_PAGE_SIZE", 1000),
		AreaCodeMaxPages: getEnvInt("AREA_CODE_MAX_PAGES", 30),
		VendorRows:       getEnvInt("VENDOR_ROWS", 1000),

		TrendSyncSchedule: getEnv("TREND_SYNC_SCHEDULE", ""),
		TrendSyncRegions:  splitList(getEnv("TREND_SYNC_REGIONS", "")),
		TrendSyncLimit:    getEnvInt("TREND_SYNC_LIMIT", 50),
		TrendSyncReplace:  getEnvBool("TREND_SYNC_REPLACE", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// getEnvSeconds reads a (possibly fractional) number of seconds, e.g. "6.0".
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return time.Duration(f * float64(time.Second))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// TLSVersion maps PublicAPITLSVersion to the crypto/tls constant.
func (c *Config) TLSVersion() (uint16, error) {
	switch c.PublicAPITLSVersion {
	case "1.2", "":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported PUBLIC_API_TLS_VERSION %q", c.PublicAPITLSVersion)
	}
}

// ValidatePublicData reports missing API keys. Syncing with a blank key only
// yields upstream routing errors, so callers refuse to start instead.
func (c *Config) ValidatePublicData() error {
	var missing []string
	if strings.TrimSpace(c.LawdAPIKey) == "" {
		missing = append(missing, "LAWD_API_KEY")
	}
	if strings.TrimSpace(c.PublicAPIKey) == "" {
		missing = append(missing, "PUBLIC_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	for name, u := range map[string]string{"LAWD_API_URL": c.LawdAPIURL, "PUBLIC_API_BASE": c.PublicAPIBase} {
		if ok, msg := validation.ValidateURL(u); !ok {
			return fmt.Errorf("invalid %s: %s", name, msg)
		}
	}
	if _, err := c.TLSVersion(); err != nil {
		return err
	}
	return nil
}
