package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsmongo "github.com/Dostonlv/uLab3/internal/domains/products/adapters/persistence/mongo"
	productsdomain "github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

var _ ports.Repository = (*Repository)(nil)

// CollectionName is the orders collection.
const CollectionName = "orders"

// Repository persists orders in MongoDB. Reads resolve product references
// with a $lookup against the catalog collection.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository wires a MongoDB-backed order store. Caller manages the
// client lifecycle.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(CollectionName)}
}

// resolvedRecord carries both the raw reference list and the joined
// documents so duplicates and caller order can be restored after $lookup.
type resolvedRecord struct {
	ID            primitive.ObjectID   `bson:"_id"`
	ProductIDs    []primitive.ObjectID `bson:"product_ids"`
	Products      []productsdomain.Ref `bson:"products"`
	TotalPrice    float64              `bson:"total_price"`
	CustomerName  string               `bson:"customer_name"`
	PaymentMethod string               `bson:"payment_method"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	clone := *order
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if clone.ID.IsZero() {
		clone.ID = primitive.NewObjectID()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

func (r *Repository) List(ctx context.Context, query ports.ListQuery) ([]ports.Resolved, int64, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, 0, err
	}
	filter := bson.M{}
	if query.PaymentMethod != "" {
		filter["payment_method"] = query.PaymentMethod
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		bson.D{{Key: "$skip", Value: (query.Page - 1) * query.Limit}},
		bson.D{{Key: "$limit", Value: query.Limit}},
		lookupStage(),
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	var records []resolvedRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	resolved := make([]ports.Resolved, 0, len(records))
	for i := range records {
		resolved = append(resolved, records[i].toResolved())
	}
	return resolved, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*ports.Resolved, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		lookupStage(),
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var records []resolvedRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ports.ErrNotFound
	}
	resolved := records[0].toResolved()
	return &resolved, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, patch ports.Patch) (*ports.Resolved, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	set := bson.M{}
	if patch.ProductIDs != nil {
		set["product_ids"] = patch.ProductIDs
	}
	if patch.TotalPrice != nil {
		set["total_price"] = *patch.TotalPrice
	}
	if patch.CustomerName != nil {
		set["customer_name"] = *patch.CustomerName
	}
	if patch.PaymentMethod != nil {
		set["payment_method"] = string(*patch.PaymentMethod)
	}
	if len(set) > 0 {
		result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ports.ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	var order domain.Order
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) PaymentBreakdown(ctx context.Context, window timerange.Range) ([]ports.PaymentGroup, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{}
	if !window.IsZero() {
		createdAt := bson.M{}
		if window.From != nil {
			createdAt["$gte"] = *window.From
		}
		if window.To != nil {
			createdAt["$lte"] = *window.To
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"created_at": createdAt}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":               "$payment_method",
			"totalRevenue":      bson.M{"$sum": "$total_price"},
			"totalOrders":       bson.M{"$count": bson.M{}},
			"averageOrderValue": bson.M{"$avg": "$total_price"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"totalRevenue": -1}}},
	)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	groups := []ports.PaymentGroup{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func lookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         productsmongo.CollectionName,
		"localField":   "product_ids",
		"foreignField": "_id",
		"as":           "products",
	}}}
}

// toResolved rebuilds the reference list in caller order with duplicates
// preserved; $lookup alone returns each matched document once.
func (rec resolvedRecord) toResolved() ports.Resolved {
	byID := make(map[primitive.ObjectID]productsdomain.Ref, len(rec.Products))
	for _, ref := range rec.Products {
		byID[ref.ID] = ref
	}
	refs := make([]productsdomain.Ref, 0, len(rec.ProductIDs))
	for _, id := range rec.ProductIDs {
		if ref, ok := byID[id]; ok {
			refs = append(refs, ref)
		}
	}
	return ports.Resolved{
		ID:            rec.ID,
		Products:      refs,
		TotalPrice:    rec.TotalPrice,
		CustomerName:  rec.CustomerName,
		PaymentMethod: domain.PaymentMethod(rec.PaymentMethod),
		CreatedAt:     rec.CreatedAt,
	}
}
