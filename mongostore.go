package main

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoStore implements Store on a MongoDB database. Every gateway call maps
// to exactly one driver call.
type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func newMongoStore(ctx context.Context, uri, dbName string) (*mongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &mongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *mongoStore) Create(ctx context.Context, collection string, doc bson.M) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting into %s: %w", collection, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("inserting into %s: unexpected id type %T", collection, res.InsertedID)
	}
	return id, nil
}

func (s *mongoStore) Get(ctx context.Context, collection string, id primitive.ObjectID) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	return doc, nil
}

func (s *mongoStore) GetAll(ctx context.Context, collection string) ([]bson.M, error) {
	return s.Search(ctx, collection, bson.M{})
}

func (s *mongoStore) Update(ctx context.Context, collection string, id primitive.ObjectID, update bson.M) (int64, int64, error) {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, update)
	if err != nil {
		return 0, 0, fmt.Errorf("updating %s: %w", collection, err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (s *mongoStore) Delete(ctx context.Context, collection string, id primitive.ObjectID) (int64, error) {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

func (s *mongoStore) Search(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", collection, err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("searching %s: %w", collection, err)
	}
	return docs, nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
