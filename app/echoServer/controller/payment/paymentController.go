package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	"carrental/app/echoServer/validation"
	"carrental/model"
	ps "carrental/service/payment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payments
func (h *Controller) Create(c echo.Context) error {
	var req PaymentReq
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

	out, err := h.Svc.Create(c.Request().Context(), uid, ps.CreateIn{
		RentalID: req.RentalID,
		Amount:   req.Amount,
		Method:   model.PaymentMethod(req.Method),
		Status:   model.PaymentStatus(req.Status),
	})
	if err != nil {
		return h.mapErr(c, "payment create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Payment created successfully", "payment": out})
}

// POST /v1/payments/checkout
// @Summary Create payment via hosted checkout session
// @Success 201 {object} map[string]any
// @Failure 400,401,404,409,422,500
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
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

	out, err := h.Svc.CreateWithCheckout(c.Request().Context(), uid, ps.CheckoutIn{
		RentalID:    req.RentalID,
		Amount:      req.Amount,
		Method:      model.PaymentMethod(req.Method),
		CompanyName: req.CompanyName,
		ModelName:   req.ModelName,
	})
	if err != nil {
		return h.mapErr(c, "payment checkout", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Checkout session created",
		"payment":      out.Payment,
		"session_id":   out.SessionID,
		"redirect_url": out.RedirectURL,
	})
}

// GET /v1/payments/success?session_id=
func (h *Controller) Success(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	out, err := h.Svc.Confirm(c.Request().Context(), sessionID)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrPaymentIncomplete:
			return c.JSON(http.StatusPaymentRequired, echo.Map{"message": "payment not completed"})
		case ps.ErrNotVisible:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
		case ps.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing session_id"})
		default:
			h.Log.Error("payment confirm", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment completed successfully", "payment": out})
}

// GET /v1/payments/cancel
func (h *Controller) Cancel(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment cancelled"})
}

// GET /v1/payments
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("payment list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/payments/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		return h.mapErr(c, "payment detail", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/payments/rental/:rentalId
func (h *Controller) ByRental(c echo.Context) error {
	rentalID, err := parseID(c, "rentalId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetByRental(c.Request().Context(), uid, rentalID)
	if err != nil {
		return h.mapErr(c, "payment by rental", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/payments/user/:userId
// Foreign user ids are masked as absence, same as every other ownership check.
func (h *Controller) ByUser(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	if userID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "payments not found"})
	}

	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("payment by user", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/payments/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdatePaymentReq
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

	out, err := h.Svc.Update(c.Request().Context(), uid, id, ps.CreateIn{
		Amount: req.Amount,
		Method: model.PaymentMethod(req.Method),
		Status: model.PaymentStatus(req.Status),
	})
	if err != nil {
		return h.mapErr(c, "payment update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /v1/payments/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		return h.mapErr(c, "payment delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment deleted successfully"})
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch ps.Code(err) {
	case ps.ErrNotVisible:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
	case ps.ErrRentalAlreadyPaid:
		return c.JSON(http.StatusConflict, echo.Map{"message": "rental already has a payment"})
	case ps.ErrBadInput:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "validation error"})
	default:
		// Collaborator errors land here: logged with detail, surfaced generic.
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}
