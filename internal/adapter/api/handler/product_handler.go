package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ecofinds/internal/usecase"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/response"
	"ecofinds/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Title       string           `json:"title" validate:"required,min=3,max=200"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	CategoryID  uint             `json:"category_id" validate:"required"`
	Condition   string           `json:"condition"`
	ImageURLs   []string         `json:"image_urls" validate:"omitempty,max=10,dive,url"`
}

type updateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id"`
	Condition   *string          `json:"condition"`
	ImageURLs   *[]string        `json:"image_urls" validate:"omitempty,max=10,dive,url"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), getUserIDFromContext(c), usecase.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		Condition:   req.Condition,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	product, err := h.productUseCase.GetProduct(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

// ListProducts serves the public search: q, category, minPrice, maxPrice,
// condition, sortBy, sortOrder, page and limit.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	minPrice, err := parsePrice(c.QueryParam("minPrice"), "minPrice")
	if err != nil {
		return response.Error(c, err)
	}
	maxPrice, err := parsePrice(c.QueryParam("maxPrice"), "maxPrice")
	if err != nil {
		return response.Error(c, err)
	}

	page, err := h.productUseCase.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Query:     c.QueryParam("q"),
		Category:  c.QueryParam("category"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Condition: c.QueryParam("condition"),
		Page:      pagination.Page,
		Limit:     pagination.PageSize,
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Items, page.Total, page.Page, page.Limit)
}

func parsePrice(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Validation(field, field+" must be a number")
	}
	return &value, nil
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	page, err := h.productUseCase.ListMyProducts(c.Request().Context(), getUserIDFromContext(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, page.Items, page.Total, page.Page, page.Limit)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), id, getUserIDFromContext(c), usecase.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Condition:   req.Condition,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return response.Error(c, invalidID("id"))
	}

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Product deleted successfully"})
}
