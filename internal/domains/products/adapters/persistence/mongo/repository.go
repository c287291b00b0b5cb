package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/domains/products/ports"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

var _ ports.Repository = (*Repository)(nil)

// CollectionName is the catalog collection.
const CollectionName = "products"

// Repository persists products in MongoDB.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository wires a MongoDB-backed catalog. Caller manages the client
// lifecycle.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(CollectionName)}
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	clone := *product
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

func (r *Repository) List(ctx context.Context, query ports.ListQuery) ([]*domain.Product, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	filter := bson.M{}
	if query.Search != "" {
		filter["name"] = bson.M{"$regex": query.Search, "$options": "i"}
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	opts := options.Find().
		SetSkip((query.Page - 1) * query.Limit).
		SetLimit(query.Limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, patch ports.Patch) (*domain.Product, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(update) == 0 {
		// Nothing to change; behave like a plain read so the caller still
		// gets NotFound for a missing id.
		var product domain.Product
		err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &product, nil
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product domain.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	var product domain.Product
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) CategoryBreakdown(ctx context.Context, window timerange.Range) ([]ports.CategoryGroup, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{}
	if stage, ok := matchStage(window); ok {
		pipeline = append(pipeline, stage)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$category",
			"totalProducts": bson.M{"$sum": 1},
			"averagePrice":  bson.M{"$avg": "$price"},
			"minPrice":      bson.M{"$min": "$price"},
			"maxPrice":      bson.M{"$max": "$price"},
			"products": bson.M{"$push": bson.M{
				"id":    "$_id",
				"name":  "$name",
				"price": "$price",
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"totalProducts": -1}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           0,
			"category":      "$_id",
			"totalProducts": 1,
			"averagePrice":  bson.M{"$round": bson.A{"$averagePrice", 2}},
			"priceRange": bson.M{
				"min": "$minPrice",
				"max": "$maxPrice",
			},
			"products": bson.M{"$slice": bson.A{"$products", 5}},
		}}},
	)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	groups := []ports.CategoryGroup{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *Repository) Summarize(ctx context.Context, window timerange.Range) (*ports.Summary, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{}
	if stage, ok := matchStage(window); ok {
		pipeline = append(pipeline, stage)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"totalProducts":   bson.M{"$sum": 1},
			"averagePrice":    bson.M{"$avg": "$price"},
			"totalCategories": bson.M{"$addToSet": "$category"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":             0,
			"totalProducts":   1,
			"averagePrice":    bson.M{"$round": bson.A{"$averagePrice", 2}},
			"totalCategories": bson.M{"$size": "$totalCategories"},
		}}},
	)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var summaries []ports.Summary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return &ports.Summary{}, nil
	}
	return &summaries[0], nil
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo product repository not configured")
	}
	return nil
}

// matchStage builds the closed created_at range filter shared by both
// report pipelines; both bounds are inclusive.
func matchStage(window timerange.Range) (bson.D, bool) {
	if window.IsZero() {
		return bson.D{}, false
	}
	createdAt := bson.M{}
	if window.From != nil {
		createdAt["$gte"] = *window.From
	}
	if window.To != nil {
		createdAt["$lte"] = *window.To
	}
	return bson.D{{Key: "$match", Value: bson.M{"created_at": createdAt}}}, true
}
