package rental

import (
	"log/slog"
	"net/http"
	"strconv"

	"carrental/app/echoServer/validation"
	"carrental/model"
	rs "carrental/service/rental"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/rentals
func (h *Controller) Create(c echo.Context) error {
	var req RentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Create(c.Request().Context(), uid, toIn(req))
	if err != nil {
		return h.mapErr(c, "rental create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Rental created successfully", "rental": out})
}

// GET /v1/rentals
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("rental list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rentals/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		return h.mapErr(c, "rental detail", err)
	}
	return c.JSON(http.StatusOK, out)
}

// PUT /v1/rentals/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Update(c.Request().Context(), uid, id, toIn(req))
	if err != nil {
		return h.mapErr(c, "rental update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /v1/rentals/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		return h.mapErr(c, "rental delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Rental deleted successfully"})
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch rs.Code(err) {
	case rs.ErrNotVisible:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
	case rs.ErrCarNotFound:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"car_id": "must reference an existing car"},
		})
	case rs.ErrBadDates:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"end_date": "must not precede start_date"},
		})
	case rs.ErrBadStatus, rs.ErrBadInput:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "validation error"})
	case rs.ErrBadTransition:
		return c.JSON(http.StatusConflict, echo.Map{"message": "status transition not allowed"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func toIn(req RentalReq) rs.CreateIn {
	return rs.CreateIn{
		CarID:       req.CarID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalAmount: req.TotalAmount,
		Status:      model.RentalStatus(req.Status),
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}
