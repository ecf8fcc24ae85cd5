package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	RateLimit RateLimitConfig
	Trace     TraceConfig
	Output    OutputConfig
}

type ServerConfig struct {
	Addr         string
	MaxBodyBytes int64
}

type RateLimitConfig struct {
	// RedisAddr empty disables rate limiting.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Capacity      int
	Window        time.Duration
	UserIDHeader  string
}

type TraceConfig struct {
	ServiceName  string
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

type OutputConfig struct {
	Dir string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr:         env("NANOPNG_SERVER_ADDR", ":8080"),
			MaxBodyBytes: int64(envInt("NANOPNG_MAX_BODY_BYTES", 64<<20)),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:     env("NANOPNG_REDIS_ADDR", ""),
			RedisPassword: env("NANOPNG_REDIS_PASSWORD", ""),
			RedisDB:       envInt("NANOPNG_REDIS_DB", 0),
			Capacity:      envInt("NANOPNG_RATE_LIMIT_CAPACITY", 60),
			Window:        envDuration("NANOPNG_RATE_LIMIT_WINDOW", time.Minute),
			UserIDHeader:  env("NANOPNG_RATE_LIMIT_USER_HEADER", "X-User-ID"),
		},
		Trace: TraceConfig{
			ServiceName:  env("NANOPNG_TRACE_SERVICE", "nanopng"),
			Exporter:     env("NANOPNG_TRACE_EXPORTER", "none"),
			OTLPEndpoint: env("NANOPNG_TRACE_OTLP_ENDPOINT", ""),
			OTLPInsecure: envBool("NANOPNG_TRACE_OTLP_INSECURE", false),
		},
		Output: OutputConfig{
			Dir: env("NANOPNG_OUTPUT_DIR", "./.nanopng-output"),
		},
	}
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
