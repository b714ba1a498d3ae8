package memory

import (
	"context"
	"sort"
	"strings"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type categoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) repository.CategoryRepository {
	return &categoryRepository{s: s}
}

func (r *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]*entity.Category, 0, len(r.s.categories))
	for _, category := range r.s.categories {
		c := category
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := r.s.categories[id]
	if !ok {
		return nil, apperrors.NotFound("Category", nil)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, category := range r.s.categories {
		if strings.EqualFold(category.Name, name) {
			c := category
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("Category", nil)
}

func (r *categoryRepository) EnsureExists(ctx context.Context, names []string) error {
	defer r.s.lock(ctx)()

	existing := make(map[string]bool, len(r.s.categories))
	for _, category := range r.s.categories {
		existing[category.Name] = true
	}
	for _, name := range names {
		if existing[name] {
			continue
		}
		id := r.s.nextID()
		r.s.categories[id] = entity.Category{ID: id, Name: name, CreatedAt: r.s.now()}
		existing[name] = true
	}
	return nil
}

type productRepository struct {
	s *Store
}

func NewProductRepository(s *Store) repository.ProductRepository {
	return &productRepository{s: s}
}

// hydrate must be called with mu held.
func (r *productRepository) hydrate(p entity.Product) *entity.Product {
	p.ImageURLs = cloneStrings(p.ImageURLs)
	p.Seller = r.s.sellerOf(p.SellerID)
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return &p
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	defer r.s.lock(ctx)()

	product.ID = r.s.nextID()
	product.CreatedAt = r.s.now()
	product.UpdatedAt = product.CreatedAt
	if product.Status == "" {
		product.Status = entity.ProductAvailable
	}
	stored := *product
	stored.ImageURLs = cloneStrings(product.ImageURLs)
	stored.Seller, stored.Category = nil, nil
	r.s.products[product.ID] = stored
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product", nil)
	}
	return r.hydrate(product), nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var matched []*entity.Product
	for _, p := range r.s.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.SellerID != 0 && p.SellerID != filter.SellerID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.Condition != "" && p.Condition != filter.Condition {
			continue
		}
		matched = append(matched, r.hydrate(p))
	}

	desc := filter.SortOrder != repository.SortAsc
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var cmp int
		if filter.SortBy == repository.SortByPrice {
			cmp = a.Price.Cmp(b.Price)
		} else {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp == 0 {
			if a.ID < b.ID {
				cmp = -1
			} else if a.ID > b.ID {
				cmp = 1
			}
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.products[product.ID]
	if !ok {
		return apperrors.NotFound("Product", nil)
	}
	stored.Title = product.Title
	stored.Description = product.Description
	stored.Price = product.Price
	stored.CategoryID = product.CategoryID
	stored.Condition = product.Condition
	stored.ImageURLs = cloneStrings(product.ImageURLs)
	stored.UpdatedAt = r.s.now()
	r.s.products[product.ID] = stored
	product.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete cascades to cart rows and detaches order lines and conversations,
// mirroring the foreign keys of the relational schema.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.products[id]; !ok {
		return apperrors.NotFound("Product", nil)
	}
	delete(r.s.products, id)
	for cid, item := range r.s.cartItems {
		if item.ProductID == id {
			delete(r.s.cartItems, cid)
		}
	}
	for oid, item := range r.s.orderItems {
		if item.ProductID != nil && *item.ProductID == id {
			item.ProductID = nil
			r.s.orderItems[oid] = item
		}
	}
	for cid, conversation := range r.s.conversations {
		if conversation.ProductID != nil && *conversation.ProductID == id {
			conversation.ProductID = nil
			r.s.conversations[cid] = conversation
		}
	}
	return nil
}

func (r *productRepository) LockForUpdate(ctx context.Context, ids []uint) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	products := make([]*entity.Product, 0, len(sorted))
	for _, id := range sorted {
		if p, ok := r.s.products[id]; ok {
			products = append(products, r.hydrate(p))
		}
	}
	return products, nil
}

func (r *productRepository) MarkSold(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()

	p, ok := r.s.products[id]
	if !ok || p.Status != entity.ProductAvailable {
		return apperrors.Conflict("Some items are no longer available")
	}
	p.Status = entity.ProductSold
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return nil
}
