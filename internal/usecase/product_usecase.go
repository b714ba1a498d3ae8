package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/utils"
)

const (
	minTitleLength   = 3
	maxTitleLength   = 200
	maxProductImages = 10
)

type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
	Condition   string
	ImageURLs   []string
}

// UpdateProductInput applies only the non-nil fields.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uint
	Condition   *string
	ImageURLs   *[]string
}

type ListProductsInput struct {
	Query     string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Condition string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID uint, input CreateProductInput) (*ProductView, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	condition := entity.ProductCondition(input.Condition)
	if !condition.Valid() {
		return nil, errors.Validation("condition", "condition must be one of: new like_new good fair poor")
	}
	if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	images, err := validateImageURLs(input.ImageURLs)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price.Round(2),
		CategoryID:  input.CategoryID,
		Condition:   condition,
		Status:      entity.ProductAvailable,
		ImageURLs:   images,
		SellerID:    sellerID,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Internal("Failed to create product", err)
	}

	logger.Info("Product created: id=%d seller=%d", product.ID, sellerID)
	return uc.GetProduct(ctx, product.ID)
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id uint) (*ProductView, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough("Failed to load product", err)
	}
	return NewProductView(product), nil
}

// ListProducts returns the public feed: available products only.
func (uc *ProductUseCase) ListProducts(ctx context.Context, input ListProductsInput) (*Page[*ProductView], error) {
	pagination := utils.NewPaginationParams(input.Page, input.Limit)
	empty := &Page[*ProductView]{Items: []*ProductView{}, Page: pagination.Page, Limit: pagination.PageSize}

	filter := repository.ProductFilter{
		Query:     strings.TrimSpace(input.Query),
		MinPrice:  input.MinPrice,
		MaxPrice:  input.MaxPrice,
		Status:    entity.ProductAvailable,
		SortBy:    repository.SortByDate,
		SortOrder: repository.SortDesc,
		Limit:     pagination.PageSize,
		Offset:    pagination.Offset,
	}

	switch input.SortBy {
	case "":
	case repository.SortByPrice, repository.SortByDate:
		filter.SortBy = input.SortBy
	default:
		return nil, errors.Validation("sortBy", "sortBy must be one of: price date")
	}
	switch input.SortOrder {
	case "":
	case repository.SortAsc, repository.SortDesc:
		filter.SortOrder = input.SortOrder
	default:
		return nil, errors.Validation("sortOrder", "sortOrder must be one of: asc desc")
	}

	if input.Condition != "" {
		condition := entity.ProductCondition(input.Condition)
		if !condition.Valid() {
			return nil, errors.Validation("condition", "condition must be one of: new like_new good fair poor")
		}
		filter.Condition = condition
	}

	categoryID, matched, err := uc.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	if !matched {
		return empty, nil
	}
	filter.CategoryID = categoryID

	products, total, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Internal("Failed to list products", err)
	}

	return &Page[*ProductView]{
		Items: newProductViews(products),
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.PageSize,
	}, nil
}

// ListMyProducts returns every product of the seller regardless of status.
func (uc *ProductUseCase) ListMyProducts(ctx context.Context, sellerID uint, page, limit int) (*Page[*ProductView], error) {
	pagination := utils.NewPaginationParams(page, limit)
	products, total, err := uc.productRepo.List(ctx, repository.ProductFilter{
		SellerID:  sellerID,
		SortBy:    repository.SortByDate,
		SortOrder: repository.SortDesc,
		Limit:     pagination.PageSize,
		Offset:    pagination.Offset,
	})
	if err != nil {
		return nil, errors.Internal("Failed to list products", err)
	}

	return &Page[*ProductView]{
		Items: newProductViews(products),
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.PageSize,
	}, nil
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id, sellerID uint, input UpdateProductInput) (*ProductView, error) {
	product, err := uc.ownedProduct(ctx, id, sellerID, "update")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = input.Price.Round(2)
	}
	if input.CategoryID != nil {
		if err := uc.checkCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Condition != nil {
		condition := entity.ProductCondition(*input.Condition)
		if !condition.Valid() {
			return nil, errors.Validation("condition", "condition must be one of: new like_new good fair poor")
		}
		product.Condition = condition
	}
	if input.ImageURLs != nil {
		images, err := validateImageURLs(*input.ImageURLs)
		if err != nil {
			return nil, err
		}
		product.ImageURLs = images
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Internal("Failed to update product", err)
	}
	return uc.GetProduct(ctx, product.ID)
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id, sellerID uint) error {
	if _, err := uc.ownedProduct(ctx, id, sellerID, "delete"); err != nil {
		return err
	}
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return passThrough("Failed to delete product", err)
	}
	logger.Info("Product deleted: id=%d seller=%d", id, sellerID)
	return nil
}

func (uc *ProductUseCase) ownedProduct(ctx context.Context, id, sellerID uint, action string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough("Failed to load product", err)
	}
	if product.SellerID != sellerID {
		return nil, errors.Forbidden("You can only "+action+" your own products", nil)
	}
	return product, nil
}

// resolveCategory turns the category filter into an id. A value starting
// with an integer is read as an id ("12abc" is 12); anything else is looked
// up by name. matched is false when the filter can match nothing.
func (uc *ProductUseCase) resolveCategory(ctx context.Context, raw string) (id uint, matched bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true, nil
	}

	if n, ok := utils.LeadingInt(raw); ok {
		if n <= 0 {
			return 0, false, nil
		}
		return uint(n), true, nil
	}

	category, err := uc.categoryRepo.GetByName(ctx, raw)
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, errors.Internal("Failed to resolve category", err)
	}
	return category.ID, true, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.Validation("category_id", "category_id is required")
	}
	if _, err := uc.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return errors.Validation("category_id", "Invalid category")
		}
		return errors.Internal("Failed to load category", err)
	}
	return nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(title)
	if n < minTitleLength {
		return "", errors.Validation("title", "title must be at least 3 characters")
	}
	if n > maxTitleLength {
		return "", errors.Validation("title", "title must be at most 200 characters")
	}
	return title, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errors.Validation("price", "price must be a non-negative number")
	}
	return nil
}

func validateImageURLs(urls []string) (pq.StringArray, error) {
	if len(urls) > maxProductImages {
		return nil, errors.Validation("image_urls", "at most 10 images are allowed")
	}
	images := make(pq.StringArray, 0, len(urls))
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	return images, nil
}
