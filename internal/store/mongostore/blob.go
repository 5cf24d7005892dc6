// Package mongostore keeps profile pictures as documents in a MongoDB
// collection, one document per owner id.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// pictureDocument is the stored shape: {_id, id, profile_picture}.
type pictureDocument struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	OwnerID        int64         `bson:"id"`
	ProfilePicture bson.Binary   `bson:"profile_picture"`
}

func newPictureDocument(ownerID int64, data []byte) pictureDocument {
	return pictureDocument{
		OwnerID:        ownerID,
		ProfilePicture: bson.Binary{Subtype: bson.TypeBinaryGeneric, Data: data},
	}
}

func (d *pictureDocument) bytes() []byte {
	return d.ProfilePicture.Data
}

func ownerFilter(ownerID int64) bson.D {
	return bson.D{{Key: "id", Value: ownerID}}
}

type BlobStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect dials uri and binds the store to database.collection.
func Connect(ctx context.Context, uri, database, collection string) (*BlobStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return New(client, client.Database(database).Collection(collection)), nil
}

func New(client *mongo.Client, collection *mongo.Collection) *BlobStore {
	return &BlobStore{client: client, collection: collection}
}

// Migrate ensures a unique index on the owner id.
func (s *BlobStore) Migrate(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("owner_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create owner index: %w", err)
	}
	return nil
}

func (s *BlobStore) Put(ctx context.Context, ownerID int64, data []byte) error {
	doc := newPictureDocument(ownerID, data)
	_, err := s.collection.ReplaceOne(ctx, ownerFilter(ownerID), doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("put profile picture: %w", store.ErrConflict)
		}
		return fmt.Errorf("put profile picture: %w", err)
	}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, ownerID int64) ([]byte, error) {
	var doc pictureDocument
	if err := s.collection.FindOne(ctx, ownerFilter(ownerID)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get profile picture: %w", err)
	}
	return doc.bytes(), nil
}

func (s *BlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *BlobStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
