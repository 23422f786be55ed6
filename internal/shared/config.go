package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const devJWTSecret = "dev-only-secret-change-me"

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver string // mysql | file
	MySQLDSN    string
	DataFile    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	UploadDir       string
	JWTSecret       string
	TokenTTL        time.Duration
	PageSize        int
	LoginRatePerMin int
	TrustedProxies  []string // IPs or CIDRs allowed to set X-Forwarded-For

	SeedFile    string
	SeedWorkers int

	APIBaseURL string
	ClientRPS  int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		StoreDriver:     env("STORE_DRIVER", "file"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		DataFile:        env("DATA_FILE", "data/db.json"),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		UploadDir:       env("UPLOAD_DIR", "public/uploads"),
		JWTSecret:       env("JWT_SECRET", ""),
		TokenTTL:        time.Duration(atoi("TOKEN_TTL_MINUTES", 60*24)) * time.Minute,
		PageSize:        atoi("PAGE_SIZE", 5),
		LoginRatePerMin: atoi("LOGIN_RATE_PER_MIN", 10),
		TrustedProxies:  splitList(env("TRUSTED_PROXIES", "")),
		SeedFile:        env("SEED_FILE", "seed/db.json"),
		SeedWorkers:     atoi("SEED_WORKERS", 8),
		APIBaseURL:      env("API_BASE_URL", "http://localhost:8080"),
		ClientRPS:       atoi("CLIENT_RPS", 5),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; using the development secret")
		c.JWTSecret = devJWTSecret
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
