package handler

import (
	"github.com/labstack/echo/v4"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/response"
)

type CategoryHandler struct {
	categoryUseCase *usecase.CategoryUseCase
}

func NewCategoryHandler(categoryUseCase *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
	}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryUseCase.ListCategories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, categories)
}
