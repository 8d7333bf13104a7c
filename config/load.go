package config

import (
	"log/slog"
	"os"
	"time"
)

func Load() App {
	cfg := App{
		Port:               getenv("APP_PORT", "8080"),
		DatabaseURL:        must("DATABASE_URL"),
		JWTSecret:          getenv("JWT_SECRET", "local_dev_secret"),
		CheckoutSecretKey:  os.Getenv("CHECKOUT_SECRET_KEY"),
		CheckoutCurrency:   getenv("CHECKOUT_CURRENCY", "usd"),
		PublicBaseURL:      getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		CheckoutExpiry:     getduration("CHECKOUT_EXPIRY", 24*time.Hour),
		RentalStrictStatus: os.Getenv("RENTAL_STRICT_STATUS") == "true",
		Env:                getenv("APP_ENV", "dev"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("bad duration env, using default", "key", k, "value", v)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
