package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

const collectionGuides = "first_aid_guides"

// summaryProjection is what list endpoints return; steps and long lists are
// only served by FindByID.
var summaryProjection = bson.M{
	"title":                1,
	"category":             1,
	"description":          1,
	"severity":             1,
	"image_url":            1,
	"is_offline_available": 1,
	"tags":                 1,
	"view_count":           1,
	"created_at":           1,
	"updated_at":           1,
}

type GuideRepository struct {
	col *mongo.Collection
}

func NewGuideRepository(db *mongo.Database) *GuideRepository {
	return &GuideRepository{col: db.Collection(collectionGuides)}
}

type mongoGuide struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	domain.Guide `bson:",inline"`
}

func (mg *mongoGuide) toDomain() *domain.Guide {
	g := mg.Guide
	g.ID = mg.ID.Hex()
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return &g
}

// Create inserts a new guide document.
func (r *GuideRepository) Create(ctx context.Context, g *domain.Guide) (*domain.Guide, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoGuide{Guide: *g}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a full guide document.
func (r *GuideRepository) FindByID(ctx context.Context, id string) (*domain.Guide, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrGuideNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mg mongoGuide
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGuideNotFound
		}
		return nil, err
	}
	return mg.toDomain(), nil
}

// List returns guide summaries matching filter, most viewed first.
func (r *GuideRepository) List(ctx context.Context, filter ports.ListGuidesFilter) ([]*domain.Guide, error) {
	opts := options.Find().
		SetProjection(summaryProjection).
		SetSort(bson.D{{Key: "view_count", Value: -1}, {Key: "created_at", Value: -1}})

	return r.find(ctx, listQuery(filter), opts)
}

func listQuery(filter ports.ListGuidesFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.OfflineOnly {
		query["is_offline_available"] = true
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	return query
}

// ListByCategory returns full guides in one category.
func (r *GuideRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Guide, error) {
	return r.find(ctx, bson.M{"category": category}, options.Find())
}

// Update replaces the editable fields of a guide, keeping its view count and
// creation time.
func (r *GuideRepository) Update(ctx context.Context, g *domain.Guide) (*domain.Guide, error) {
	oid, err := primitive.ObjectIDFromHex(g.ID)
	if err != nil {
		return nil, domain.ErrGuideNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":                  g.Title,
		"category":               g.Category,
		"description":            g.Description,
		"severity":               g.Severity,
		"steps":                  g.Steps,
		"warnings":               g.Warnings,
		"when_to_call_emergency": g.WhenToCallEmergency,
		"image_url":              g.ImageURL,
		"video_url":              g.VideoURL,
		"is_offline_available":   g.IsOfflineAvailable,
		"tags":                   g.Tags,
		"updated_at":             g.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mg mongoGuide
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGuideNotFound
		}
		return nil, fmt.Errorf("update guide: %w", err)
	}
	return mg.toDomain(), nil
}

func (r *GuideRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrGuideNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrGuideNotFound
	}
	return nil
}

// IncrementViews adds by to the guide's view counter.
func (r *GuideRepository) IncrementViews(ctx context.Context, id string, by int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrGuideNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"view_count": by}})
	return err
}

// EnsureIndexes creates necessary indexes on the guides collection.
func (r *GuideRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}, {Key: "tags", Value: "text"}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "view_count", Value: -1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *GuideRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Guide, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find guides: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoGuide
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode guides: %w", err)
	}

	out := make([]*domain.Guide, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
