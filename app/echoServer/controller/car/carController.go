package car

import (
	"log/slog"
	"net/http"
	"strconv"

	"carrental/app/echoServer/validation"
	"carrental/model"
	carsvc "carrental/service/car"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc carsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/cars
// @Summary Create car
// @Success 201 {object} map[string]any
// @Failure 400,401,409,422,500
func (h *Controller) Create(c echo.Context) error {
	var req CarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}

	car := toModel(0, req)
	if err := h.Svc.Create(c.Request().Context(), car); err != nil {
		switch carsvc.Code(err) {
		case carsvc.ErrPlateTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "license plate already exists"})
		case carsvc.ErrBadInput:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "validation error"})
		default:
			h.Log.Error("car create error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Car created successfully", "car": car})
}

// GET /v1/cars
// Filter params (mark, model, year, color, price) switch the collection into
// filter mode; otherwise it pages in insertion order.
func (h *Controller) List(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "validation error", "errors": echo.Map{"query": "bad filter value"}})
	}
	if !f.Empty() {
		rows, err := h.Svc.Filter(c.Request().Context(), f)
		if err != nil {
			h.Log.Error("car filter error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"data": rows})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	out, err := h.Svc.List(c.Request().Context(), page, pageSize)
	if err != nil {
		h.Log.Error("car list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/cars/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if carsvc.Code(err) == carsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}

// PUT /v1/cars/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}

	car, err := h.Svc.Update(c.Request().Context(), toModel(id, req))
	if err != nil {
		switch carsvc.Code(err) {
		case carsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		case carsvc.ErrPlateTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "license plate already exists"})
		case carsvc.ErrBadInput:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "validation error"})
		default:
			h.Log.Error("car update error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, car)
}

// DELETE /v1/cars/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if carsvc.Code(err) == carsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("car delete error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Car deleted successfully"})
}

func toModel(id int64, req CarReq) *model.Car {
	return &model.Car{
		ID:           id,
		Company:      req.Company,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		LicensePlate: req.LicensePlate,
		PricePerDay:  req.PricePerDay,
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}

func parseFilter(c echo.Context) (model.CarFilter, error) {
	var f model.CarFilter
	if v := c.QueryParam("mark"); v != "" {
		f.Mark = &v
	}
	if v := c.QueryParam("model"); v != "" {
		f.Model = &v
	}
	if v := c.QueryParam("color"); v != "" {
		f.Color = &v
	}
	if v := c.QueryParam("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return f, err
		}
		f.Year = &y
	}
	if v := c.QueryParam("price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, err
		}
		f.MaxPrice = &p
	}
	return f, nil
}
