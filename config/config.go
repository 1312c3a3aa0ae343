package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

const DefaultAPIURL = "http://localhost:5000"

type Config struct {
	Prod           bool
	Backend        bool
	Addr           string
	APIURL         string
	DatabaseFile   string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	NBARequestsPS  float64
	ScrapeInterval time.Duration
}

// LoadConfig reads an optional .env file, then parses args. Environment
// variables only change flag defaults, so an explicit flag always wins.
func LoadConfig(args []string) (*Config, error) {
	// a missing .env is the normal case outside development
	_ = godotenv.Load()

	binPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("hoopcompare", flag.ContinueOnError)
	fs.BoolVarP(&cfg.Prod, "prod", "p", envBool("HOOP_PROD", false), "designates production")
	fs.BoolVar(&cfg.Backend, "backend", envBool("HOOP_BACKEND", false), "run the stats service instead of the comparison panel")
	fs.StringVar(&cfg.Addr, "addr", envString("HOOP_ADDR", ""), "listen address (default :8080 for the panel, :5000 for the stats service)")
	fs.StringVar(&cfg.APIURL, "api-url", envString("HOOP_API_URL", DefaultAPIURL), "base URL of the stats service")
	fs.StringVar(&cfg.DatabaseFile, "db", envString("HOOP_DB", ""), "sqlite database file used by the stats service")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", envDuration("HOOP_REQUEST_TIMEOUT", 30*time.Second), "timeout for calls to the stats service")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", envDuration("HOOP_SESSION_TTL", 2*time.Hour), "idle time after which a panel session is dropped")
	fs.Float64Var(&cfg.NBARequestsPS, "nba-rps", envFloat("HOOP_NBA_RPS", 2), "maximum requests per second to stats.nba.com")
	fs.DurationVar(&cfg.ScrapeInterval, "scrape-interval", envDuration("HOOP_SCRAPE_INTERVAL", 24*time.Hour), "how often the player list is refreshed")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		if cfg.Backend {
			cfg.Addr = ":5000"
		} else {
			cfg.Addr = ":8080"
		}
	}
	if cfg.DatabaseFile == "" {
		if cfg.Prod {
			cfg.DatabaseFile = "/sqlitedata/database.db"
		} else {
			cfg.DatabaseFile = filepath.Join(filepath.Dir(binPath), "database.db")
		}
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
