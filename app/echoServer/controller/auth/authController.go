package auth

import (
	"log/slog"
	"net/http"

	"carrental/app/echoServer/validation"
	"carrental/model"
	authsvc "carrental/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Register a new user with email/username uniqueness and validation
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email/username already taken"
// @Failure      422  {object}  map[string]any
// @Failure      500  {object}  map[string]any "internal server error"
// @Router       /v1/users/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}

	u, _, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		case authsvc.ErrUsernameTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "username already taken"})
		case authsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("register failed",
				"err", err,
				"req_id", rid,
				"path", c.Path(),
				"method", c.Request().Method,
			)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "register failed"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"user":    u,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/users/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}

	_, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidCreds:
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid email or password"})
		case authsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed",
				"err", err,
				"req_id", rid,
				"path", c.Path(),
				"method", c.Request().Method,
			)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "login failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
	})
}
