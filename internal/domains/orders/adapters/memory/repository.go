package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsdomain "github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order adapter for development and tests.
// Product references are resolved through the injected finder, so it joins
// against whatever catalog adapter the process runs with.
type Repository struct {
	mu       sync.RWMutex
	orders   map[primitive.ObjectID]*domain.Order
	products ports.ProductFinder
	now      func() time.Time
}

func NewRepository(products ports.ProductFinder) *Repository {
	return &Repository{
		orders:   map[primitive.ObjectID]*domain.Order{},
		products: products,
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	clone := *order
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
	clone.ProductIDs = append([]primitive.ObjectID{}, clone.ProductIDs...)
	r.orders[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) List(ctx context.Context, query ports.ListQuery) ([]ports.Resolved, int64, error) {
	r.mu.RLock()
	var matched []*domain.Order
	for _, order := range r.orders {
		if query.PaymentMethod != "" && string(order.PaymentMethod) != query.PaymentMethod {
			continue
		}
		clone := *order
		matched = append(matched, &clone)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	skip := (query.Page - 1) * query.Limit
	if skip >= total {
		return []ports.Resolved{}, total, nil
	}
	end := skip + query.Limit
	if end > total {
		end = total
	}
	page := matched[skip:end]

	resolved := make([]ports.Resolved, 0, len(page))
	for _, order := range page {
		item, err := r.resolve(ctx, order)
		if err != nil {
			return nil, 0, err
		}
		resolved = append(resolved, *item)
	}
	return resolved, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*ports.Resolved, error) {
	r.mu.RLock()
	order, ok := r.orders[id]
	if !ok {
		r.mu.RUnlock()
		return nil, ports.ErrNotFound
	}
	clone := *order
	r.mu.RUnlock()
	return r.resolve(ctx, &clone)
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, patch ports.Patch) (*ports.Resolved, error) {
	r.mu.Lock()
	order, ok := r.orders[id]
	if !ok {
		r.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	if patch.ProductIDs != nil {
		order.ProductIDs = append([]primitive.ObjectID{}, patch.ProductIDs...)
	}
	if patch.TotalPrice != nil {
		order.TotalPrice = *patch.TotalPrice
	}
	if patch.CustomerName != nil {
		order.CustomerName = *patch.CustomerName
	}
	if patch.PaymentMethod != nil {
		order.PaymentMethod = *patch.PaymentMethod
	}
	clone := *order
	r.mu.Unlock()
	return r.resolve(ctx, &clone)
}

func (r *Repository) Delete(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.orders, id)
	clone := *order
	return &clone, nil
}

func (r *Repository) PaymentBreakdown(_ context.Context, window timerange.Range) ([]ports.PaymentGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type accumulator struct {
		revenue float64
		count   int64
	}
	groups := map[string]*accumulator{}
	var order []string
	for _, o := range r.orders {
		if !window.Contains(o.CreatedAt) {
			continue
		}
		method := string(o.PaymentMethod)
		acc, ok := groups[method]
		if !ok {
			acc = &accumulator{}
			groups[method] = acc
			order = append(order, method)
		}
		acc.revenue += o.TotalPrice
		acc.count++
	}
	sort.Strings(order)

	breakdown := make([]ports.PaymentGroup, 0, len(order))
	for _, method := range order {
		acc := groups[method]
		breakdown = append(breakdown, ports.PaymentGroup{
			PaymentMethod:     method,
			TotalRevenue:      acc.revenue,
			TotalOrders:       acc.count,
			AverageOrderValue: acc.revenue / float64(acc.count),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalRevenue > breakdown[j].TotalRevenue
	})
	return breakdown, nil
}

// resolve joins product references to their catalog projections, preserving
// caller order and duplicates while dropping dangling ids.
func (r *Repository) resolve(ctx context.Context, order *domain.Order) (*ports.Resolved, error) {
	found, err := r.products.FindByIDs(ctx, order.ProductIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]productsdomain.Ref, len(found))
	for _, product := range found {
		byID[product.ID] = productsdomain.Ref{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Category: product.Category,
		}
	}
	refs := make([]productsdomain.Ref, 0, len(order.ProductIDs))
	for _, id := range order.ProductIDs {
		if ref, ok := byID[id]; ok {
			refs = append(refs, ref)
		}
	}
	return &ports.Resolved{
		ID:            order.ID,
		Products:      refs,
		TotalPrice:    order.TotalPrice,
		CustomerName:  order.CustomerName,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
	}, nil
}
