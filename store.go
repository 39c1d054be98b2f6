package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the document-store gateway: one storage operation per call, no
// transactionality across calls. Identifiers are ObjectIDs internally and
// hex strings on the wire; conversion happens at the HTTP boundary.
//
// Update takes a full update document ($set, $addToSet, $pull, ...) and
// reports both matched and modified counts so callers can tell "not found"
// apart from "found but unchanged" (a duplicate $addToSet matches without
// modifying).
type Store interface {
	Create(ctx context.Context, collection string, doc bson.M) (primitive.ObjectID, error)
	Get(ctx context.Context, collection string, id primitive.ObjectID) (bson.M, error)
	GetAll(ctx context.Context, collection string) ([]bson.M, error)
	Update(ctx context.Context, collection string, id primitive.ObjectID, update bson.M) (matched, modified int64, err error)
	Delete(ctx context.Context, collection string, id primitive.ObjectID) (int64, error)
	Search(ctx context.Context, collection string, filter bson.M) ([]bson.M, error)
	Close(ctx context.Context) error
}

// documentExists reports whether an id resolves in a collection. This is a
// read-then-write existence check: the referenced document can disappear
// between this call and the subsequent write. Accepted limitation.
func documentExists(ctx context.Context, store Store, collection string, id primitive.ObjectID) (bool, error) {
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}
