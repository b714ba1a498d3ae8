package handler

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/response"
	"ecofinds/pkg/utils"
)

type CartHandler struct {
	cartUseCase *usecase.CartUseCase
}

func NewCartHandler(cartUseCase *usecase.CartUseCase) *CartHandler {
	return &CartHandler{
		cartUseCase: cartUseCase,
	}
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.cartUseCase.AddToCart(c.Request().Context(), getUserIDFromContext(c), req.ProductID, req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.cartUseCase.GetCart(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cart)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	item, err := h.cartUseCase.UpdateCartItem(c.Request().Context(), getUserIDFromContext(c), id, req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	if err := h.cartUseCase.RemoveFromCart(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.cartUseCase.ClearCart(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Cart cleared"})
}
