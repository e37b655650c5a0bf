package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	whiskiesCollection = "whiskies"
	countersCollection = "counters"
)

// whiskyDocument is a document of the whiskies collection.
type whiskyDocument struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	Brand     string    `bson:"brand"`
	Type      string    `bson:"type"`
	Max       int32     `bson:"max"`
	Quantity  int32     `bson:"quantity"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore implements WhiskyStore using MongoDB.
// IDs come from a sequence document in the counters collection.
type MongoStore struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

// NewMongoStore creates the store and makes sure the unique index on name exists.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	col := db.Collection(whiskiesCollection)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := col.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("failed to create whisky name index: %w", err)
	}

	return &MongoStore{
		col:      col,
		counters: db.Collection(countersCollection),
	}, nil
}

func (m *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": whiskiesCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate whisky ID: %w", err)
	}
	return counter.Seq, nil
}

func (m *MongoStore) Save(ctx context.Context, whisky *Whisky) (*Whisky, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	if whisky.ID == 0 {
		id, err := m.nextID(ctx)
		if err != nil {
			return nil, err
		}
		doc := toDocument(whisky)
		doc.ID = id
		doc.CreatedAt = now
		doc.UpdatedAt = now
		if _, err := m.col.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, werrors.ErrWhiskyAlreadyRegistered
			}
			return nil, fmt.Errorf("failed to insert whisky: %w", err)
		}
		return fromDocument(doc), nil
	}

	update := bson.M{"$set": bson.M{
		"name":       whisky.Name,
		"brand":      whisky.Brand,
		"type":       whisky.Type,
		"max":        whisky.Max,
		"quantity":   whisky.Quantity,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc whiskyDocument
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": whisky.ID}, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, werrors.ErrWhiskyNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, werrors.ErrWhiskyAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to update whisky: %w", err)
	}
	return fromDocument(doc), nil
}

func (m *MongoStore) FindByID(ctx context.Context, id int64) (*Whisky, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoStore) FindByName(ctx context.Context, name string) (*Whisky, error) {
	return m.findOne(ctx, bson.M{"name": name})
}

func (m *MongoStore) findOne(ctx context.Context, filter bson.M) (*Whisky, error) {
	var doc whiskyDocument
	if err := m.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, werrors.ErrWhiskyNotFound
		}
		return nil, fmt.Errorf("failed to find whisky: %w", err)
	}
	return fromDocument(doc), nil
}

func (m *MongoStore) FindAll(ctx context.Context) ([]Whisky, error) {
	cursor, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find all whiskies: %w", err)
	}
	var docs []whiskyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode whiskies: %w", err)
	}

	whiskies := make([]Whisky, len(docs))
	for i, doc := range docs {
		whiskies[i] = *fromDocument(doc)
	}
	return whiskies, nil
}

func (m *MongoStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete whisky by ID: %w", err)
	}
	if res.DeletedCount == 0 {
		return werrors.ErrWhiskyNotFound
	}
	return nil
}

func toDocument(w *Whisky) whiskyDocument {
	return whiskyDocument{
		ID:        w.ID,
		Name:      w.Name,
		Brand:     w.Brand,
		Type:      w.Type,
		Max:       w.Max,
		Quantity:  w.Quantity,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func fromDocument(doc whiskyDocument) *Whisky {
	return &Whisky{
		ID:        doc.ID,
		Name:      doc.Name,
		Brand:     doc.Brand,
		Type:      doc.Type,
		Max:       doc.Max,
		Quantity:  doc.Quantity,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}
