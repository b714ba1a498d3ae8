package handler

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/response"
	"ecofinds/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"max=500"`
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.Checkout(c.Request().Context(), getUserIDFromContext(c), usecase.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	page, err := h.orderUseCase.ListOrders(c.Request().Context(), getUserIDFromContext(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Items, page.Total, page.Page, page.Limit)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListSales(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	page, err := h.orderUseCase.ListSales(c.Request().Context(), getUserIDFromContext(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Items, page.Total, page.Page, page.Limit)
}
