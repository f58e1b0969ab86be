package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient implements Client on a MongoDB database. Records are stored
// with a string _id so ids stay opaque strings across the whole stack.
type MongoClient struct {
	db *mongo.Database
}

func NewMongoClient(db *mongo.Database) *MongoClient {
	return &MongoClient{db: db}
}

func (c *MongoClient) List(ctx context.Context, collection string, filter Filter) ([]Doc, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	cur, err := c.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []Doc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, fromMongo(raw))
	}
	return docs, cur.Err()
}

func (c *MongoClient) Get(ctx context.Context, collection, id string) (Doc, error) {
	var raw bson.M
	err := c.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromMongo(raw), nil
}

func (c *MongoClient) Create(ctx context.Context, collection string, doc Doc) (Doc, error) {
	stored := cloneDoc(doc)
	id, _ := stored["id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
	}
	delete(stored, "id")
	stored["_id"] = id

	if _, err := c.db.Collection(collection).InsertOne(ctx, toMongo(stored)); err != nil {
		return nil, err
	}
	return fromMongo(toMongo(stored)), nil
}

func (c *MongoClient) Update(ctx context.Context, collection, id string, fields Doc) (Doc, error) {
	set := bson.M{}
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		set[k] = v
	}

	var raw bson.M
	err := c.db.Collection(collection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromMongo(raw), nil
}

func (c *MongoClient) Delete(ctx context.Context, collection, id string) error {
	_, err := c.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (c *MongoClient) IncrementWhere(ctx context.Context, collection, id, field string, delta, floor int) (bool, error) {
	// field + delta >= floor, expressed as a filter so check and write are
	// one atomic update on the server.
	res, err := c.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{"_id": id, field: bson.M{"$gte": floor - delta}},
		bson.M{"$inc": bson.M{field: delta}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	// Distinguish "precondition failed" from "record gone".
	n, err := c.db.Collection(collection).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

// fromMongo renames _id to id and normalizes bson container types into the
// JSON shapes the rest of the stack expects.
func fromMongo(raw bson.M) Doc {
	doc := Doc{}
	for k, v := range raw {
		if k == "_id" {
			doc["id"] = v
			continue
		}
		doc[k] = normalizeValue(v)
	}
	return doc
}

func toMongo(doc Doc) bson.M {
	out := bson.M{}
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := map[string]any{}
		for k, inner := range t {
			out[k] = normalizeValue(inner)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = normalizeValue(inner)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}
