package application

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo     ports.Repository
	products ports.ProductFinder
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, products ports.ProductFinder) *Service {
	return &Service{repo: repo, products: products}
}

// Create validates the payload, checks every product reference against the
// catalog, and persists the order. Validation failures happen before the
// single store write; the reference check and the insert are not atomic, so
// a product deleted in between still leaves a dangling id behind.
func (s *Service) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if input.ProductIDs == nil || input.TotalPrice == nil || input.CustomerName == nil || input.PaymentMethod == nil {
		return nil, errMissingFields()
	}
	ids, err := parseProductIDs(*input.ProductIDs)
	if err != nil {
		return nil, errInvalidProductID(err)
	}
	if err := s.checkReferences(ctx, ids); err != nil {
		return nil, err
	}
	method := domain.PaymentMethod(*input.PaymentMethod)
	if !method.IsValid() {
		return nil, errUnsupportedPayment(*input.PaymentMethod)
	}
	order := &domain.Order{
		ProductIDs:    ids,
		TotalPrice:    *input.TotalPrice,
		CustomerName:  *input.CustomerName,
		PaymentMethod: method,
	}
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, order)
}

// List returns a page of resolved orders sorted by creation time descending.
func (s *Service) List(ctx context.Context, query ports.ListQuery) (*ports.OrderPage, error) {
	if query.Page < 1 {
		query.Page = defaultPage
	}
	if query.Limit < 1 {
		query.Limit = defaultLimit
	}
	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ports.Resolved{}
	}
	return &ports.OrderPage{
		Data: items,
		Pagination: ports.Pagination{
			Total: total,
			Page:  query.Page,
			Pages: (total + query.Limit - 1) / query.Limit,
		},
	}, nil
}

// GetByID loads a single resolved order.
func (s *Service) GetByID(ctx context.Context, rawID string) (*ports.Resolved, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update changes only the supplied fields. Supplied product ids are
// re-validated and re-checked against the catalog; a supplied payment
// method is re-validated against the enumeration.
func (s *Service) Update(ctx context.Context, input ports.UpdateOrderInput) (*ports.Resolved, error) {
	id, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		return nil, err
	}
	var patch ports.Patch
	if input.PaymentMethod != nil {
		method := domain.PaymentMethod(*input.PaymentMethod)
		if !method.IsValid() {
			return nil, errUnsupportedPayment(*input.PaymentMethod)
		}
		patch.PaymentMethod = &method
	}
	if input.ProductIDs != nil {
		ids, err := parseProductIDs(*input.ProductIDs)
		if err != nil {
			return nil, errInvalidProductID(err)
		}
		if err := s.checkReferences(ctx, ids); err != nil {
			return nil, err
		}
		patch.ProductIDs = ids
	}
	patch.TotalPrice = input.TotalPrice
	patch.CustomerName = input.CustomerName
	return s.repo.Update(ctx, id, patch)
}

// Delete removes an order and returns the deleted record.
func (s *Service) Delete(ctx context.Context, rawID string) (*domain.Order, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id)
}

// Report aggregates orders by payment method within the optional date range.
func (s *Service) Report(ctx context.Context, startDate, endDate string) (*ports.PaymentReport, error) {
	window, err := timerange.Parse(startDate, endDate)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.PaymentBreakdown(ctx, window)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []ports.PaymentGroup{}
	}
	return &ports.PaymentReport{
		Data:      groups,
		TimeRange: timerange.NewLabel(startDate, endDate),
	}, nil
}

// parseProductIDs trims and parses every candidate into the store's native
// identifier format, failing on the first invalid one.
func parseProductIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, candidate := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(candidate))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// checkReferences fetches all candidates in one query and reports exactly
// the ids that do not exist, duplicates included.
func (s *Service) checkReferences(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	existing := make(map[primitive.ObjectID]struct{}, len(found))
	for _, product := range found {
		existing[product.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id.Hex())
		}
	}
	if len(missing) > 0 {
		return errUnknownProducts(missing)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
