// Package main car rental API.
//
// @title           Car Rental API
// @version         1.0
// @description     Car rental service (cars, rentals, payments, users).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"carrental/app/echoServer"
	authctrl "carrental/app/echoServer/controller/auth"
	carctrl "carrental/app/echoServer/controller/car"
	paymentctrl "carrental/app/echoServer/controller/payment"
	rentalctrl "carrental/app/echoServer/controller/rental"
	"carrental/app/echoServer/validation"
	"carrental/config"
	authrepo "carrental/repository/auth"
	carrepo "carrental/repository/car"
	checkoutrepo "carrental/repository/checkout"
	paymentrepo "carrental/repository/payment"
	rentalrepo "carrental/repository/rental"
	authsvc "carrental/service/auth"
	carsvc "carrental/service/car"
	paymentsvc "carrental/service/payment"
	rentalsvc "carrental/service/rental"
	"carrental/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	cr := carrepo.New(db)
	rr := rentalrepo.New(db)
	pr := paymentrepo.New(db)
	xr := checkoutrepo.NewHTTP(cfg.CheckoutSecretKey)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	cs := carsvc.New(cr)
	rs := rentalsvc.New(db, rr, cr, cfg.RentalStrictStatus)
	ws := paymentsvc.New(pr, xr, paymentsvc.Config{
		Currency:   cfg.CheckoutCurrency,
		SuccessURL: cfg.PublicBaseURL + "/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  cfg.PublicBaseURL + "/v1/payments/cancel",
	})

	// controllers
	v := validation.NewValidate()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	carC := &carctrl.Controller{Svc: cs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ws, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Car:     carC,
		Rental:  rentalC,
		Payment: paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	// sweep abandoned checkout payments
	sweeper := paymentsvc.NewSweeper(pr)
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for range t.C {
			n, err := sweeper.ExpireStale(ctx, cfg.CheckoutExpiry)
			if err != nil {
				log.Error("payment sweep failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info("expired stale payments", "count", n)
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
