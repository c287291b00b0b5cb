package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/domains/products/ports"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

var _ ports.Repository = (*Repository)(nil)

const sampleSize = 5

// Repository is an in-memory catalog adapter for development and tests.
// Insertion order is tracked so listing and group accumulation stay
// deterministic, mirroring the document store's natural order.
type Repository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]*domain.Product
	sequence []primitive.ObjectID
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		products: map[primitive.ObjectID]*domain.Product{},
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID.IsZero() {
		clone.ID = primitive.NewObjectID()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.now()
	}
	r.products[clone.ID] = &clone
	r.sequence = append(r.sequence, clone.ID)
	result := clone
	return &result, nil
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*domain.Product
	search := strings.ToLower(query.Search)
	for _, id := range r.sequence {
		product, ok := r.products[id]
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
			continue
		}
		if query.Category != "" && product.Category != query.Category {
			continue
		}
		clone := *product
		matched = append(matched, &clone)
	}
	return paginate(matched, query.Page, query.Limit), nil
}

func (r *Repository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var found []*domain.Product
	for _, id := range r.sequence {
		if _, ok := wanted[id]; !ok {
			continue
		}
		if product, ok := r.products[id]; ok {
			clone := *product
			found = append(found, &clone)
		}
	}
	return found, nil
}

func (r *Repository) Update(_ context.Context, id primitive.ObjectID, patch ports.Patch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.products, id)
	for i, seqID := range r.sequence {
		if seqID == id {
			r.sequence = append(r.sequence[:i], r.sequence[i+1:]...)
			break
		}
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) CategoryBreakdown(_ context.Context, window timerange.Range) ([]ports.CategoryGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type accumulator struct {
		count   int64
		sum     float64
		min     float64
		max     float64
		samples []ports.SampleProduct
	}
	groups := map[string]*accumulator{}
	var order []string
	for _, id := range r.sequence {
		product, ok := r.products[id]
		if !ok || !window.Contains(product.CreatedAt) {
			continue
		}
		acc, ok := groups[product.Category]
		if !ok {
			acc = &accumulator{min: product.Price, max: product.Price}
			groups[product.Category] = acc
			order = append(order, product.Category)
		}
		acc.count++
		acc.sum += product.Price
		acc.min = math.Min(acc.min, product.Price)
		acc.max = math.Max(acc.max, product.Price)
		if len(acc.samples) < sampleSize {
			acc.samples = append(acc.samples, ports.SampleProduct{
				ID:    product.ID,
				Name:  product.Name,
				Price: product.Price,
			})
		}
	}

	breakdown := make([]ports.CategoryGroup, 0, len(order))
	for _, category := range order {
		acc := groups[category]
		breakdown = append(breakdown, ports.CategoryGroup{
			Category:      category,
			TotalProducts: acc.count,
			AveragePrice:  round2(acc.sum / float64(acc.count)),
			PriceRange:    ports.PriceRange{Min: acc.min, Max: acc.max},
			Products:      acc.samples,
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalProducts > breakdown[j].TotalProducts
	})
	return breakdown, nil
}

func (r *Repository) Summarize(_ context.Context, window timerange.Range) (*ports.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	var sum float64
	categories := map[string]struct{}{}
	for _, id := range r.sequence {
		product, ok := r.products[id]
		if !ok || !window.Contains(product.CreatedAt) {
			continue
		}
		count++
		sum += product.Price
		categories[product.Category] = struct{}{}
	}
	if count == 0 {
		return &ports.Summary{}, nil
	}
	return &ports.Summary{
		TotalProducts:   count,
		AveragePrice:    round2(sum / float64(count)),
		TotalCategories: int64(len(categories)),
	}, nil
}

func paginate(products []*domain.Product, page, limit int64) []*domain.Product {
	skip := (page - 1) * limit
	if skip >= int64(len(products)) {
		return []*domain.Product{}
	}
	end := skip + limit
	if end > int64(len(products)) {
		end = int64(len(products))
	}
	return products[skip:end]
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
