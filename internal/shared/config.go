package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proSamik/airbnb-analytics/internal/domain"
)

type Config struct {
	AppEnv   string
	LogLevel string

	// generator
	OutputPath        string
	Rooms             int
	Days              int
	RateMin           int
	RateMax           int
	VariationMin      float64
	VariationMax      float64
	BookedProbability float64
	Seed              uint64
	Today             time.Time // zero means wall clock
	PushgatewayURL    string

	// api
	HTTPAddr     string
	MetricsAddr  string
	RedisEnabled bool
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	CacheTTL     time.Duration
	RateLimitRPS int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		LogLevel:          env("LOG_LEVEL", "info"),
		OutputPath:        env("ROOMGEN_OUTPUT", "db.json"),
		Rooms:             atoi("ROOMGEN_ROOMS", 10),
		Days:              atoi("ROOMGEN_DAYS", 210),
		RateMin:           atoi("ROOMGEN_RATE_MIN", 80),
		RateMax:           atoi("ROOMGEN_RATE_MAX", 200),
		VariationMin:      atof("ROOMGEN_VARIATION_MIN", 0.8),
		VariationMax:      atof("ROOMGEN_VARIATION_MAX", 1.2),
		BookedProbability: atof("ROOMGEN_BOOKED_PROBABILITY", 0.6),
		PushgatewayURL:    env("PUSHGATEWAY_URL", ""),
		HTTPAddr:          env("HTTP_ADDR", ":3001"),
		MetricsAddr:       env("METRICS_ADDR", ""),
		RedisEnabled:      envBool("REDIS_ENABLED", false),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisPass:         env("REDIS_PASSWORD", ""),
		RedisDB:           atoi("REDIS_DB", 0),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RateLimitRPS:      atoi("RATE_LIMIT_RPS", 50),
	}
	if v := os.Getenv("ROOMGEN_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		} else {
			log.Warn().Str("value", v).Msg("ROOMGEN_SEED is not an unsigned integer, seeding from entropy")
		}
	}
	if v := os.Getenv("ROOMGEN_TODAY"); v != "" {
		if t, err := time.ParseInLocation(domain.DateLayout, v, time.Local); err == nil {
			c.Today = t
		} else {
			log.Warn().Str("value", v).Msg("ROOMGEN_TODAY is not YYYY-MM-DD, using wall clock")
		}
	}
	c.sanitize()
	return c
}

// MaxRate bounds ROOMGEN_RATE_MAX so the base-rate span always fits an int draw.
const MaxRate = 1_000_000

// sanitize restores defaults for generator values the random draws cannot work with.
func (c *Config) sanitize() {
	if c.Rooms < 0 {
		log.Warn().Int("rooms", c.Rooms).Msg("ROOMGEN_ROOMS is negative, using 10")
		c.Rooms = 10
	}
	if c.Days < 0 {
		log.Warn().Int("days", c.Days).Msg("ROOMGEN_DAYS is negative, using 210")
		c.Days = 210
	}
	if c.RateMin < 0 || c.RateMax > MaxRate || c.RateMax < c.RateMin {
		log.Warn().Int("min", c.RateMin).Int("max", c.RateMax).Msg("rate bounds invalid, using 80..200")
		c.RateMin, c.RateMax = 80, 200
	}
	if c.VariationMax < c.VariationMin {
		log.Warn().Float64("min", c.VariationMin).Float64("max", c.VariationMax).Msg("variation bounds inverted, using 0.8..1.2")
		c.VariationMin, c.VariationMax = 0.8, 1.2
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
