package config

import "time"

type App struct {
	Port               string `env:"APP_PORT" default:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	JWTSecret          string `env:"JWT_SECRET,required"`
	CheckoutSecretKey  string `env:"CHECKOUT_SECRET_KEY"`
	CheckoutCurrency   string `env:"CHECKOUT_CURRENCY" default:"usd"`
	PublicBaseURL      string `env:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	CheckoutExpiry     time.Duration
	RentalStrictStatus bool `env:"RENTAL_STRICT_STATUS"`
	Env                string `env:"APP_ENV" default:"dev"`
}
