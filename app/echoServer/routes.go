package echoServer

import (
	"net/http"

	authctrl "carrental/app/echoServer/controller/auth"
	carctrl "carrental/app/echoServer/controller/car"
	paymentctrl "carrental/app/echoServer/controller/payment"
	rentalctrl "carrental/app/echoServer/controller/rental"
	"carrental/app/echoServer/jwtx"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth    *authctrl.Controller
	Car     *carctrl.Controller
	Rental  *rentalctrl.Controller
	Payment *paymentctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Checkout redirects carry no bearer token; the session id is the credential.
	pub.GET("/payments/success", c.Payment.Success)
	pub.GET("/payments/cancel", c.Payment.Cancel)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup: "header:Authorization",
	}))
	auth.Use(currentUser())

	// Cars
	auth.GET("/cars", c.Car.List)
	auth.GET("/cars/:id", c.Car.Detail)
	auth.POST("/cars", c.Car.Create)
	auth.PUT("/cars/:id", c.Car.Update)
	auth.DELETE("/cars/:id", c.Car.Delete)

	// Rentals
	auth.GET("/rentals", c.Rental.List)
	auth.GET("/rentals/:id", c.Rental.Detail)
	auth.POST("/rentals", c.Rental.Create)
	auth.PUT("/rentals/:id", c.Rental.Update)
	auth.DELETE("/rentals/:id", c.Rental.Delete)

	// Payments
	auth.GET("/payments", c.Payment.List)
	auth.GET("/payments/:id", c.Payment.Detail)
	auth.POST("/payments", c.Payment.Create)
	auth.POST("/payments/checkout", c.Payment.Checkout)
	auth.PUT("/payments/:id", c.Payment.Update)
	auth.DELETE("/payments/:id", c.Payment.Delete)
	auth.GET("/payments/rental/:rentalId", c.Payment.ByRental)
	auth.GET("/payments/user/:userId", c.Payment.ByUser)
}

// currentUser pulls the user id out of the verified token so controllers can
// read c.Get("user_id") without touching jwt types.
func currentUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, err := jwtx.UserIDFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			c.Set("user_id", uid)
			return next(c)
		}
	}
}
