package mockstore

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend persists the collections as schemaless documents. The public
// "id" field doubles as the Mongo "_id" so lookups stay a primary-key read.
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoBackend(uri, database string) (*MongoBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB successfully")
	return &MongoBackend{client: client, db: client.Database(database)}, nil
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

func toStored(doc map[string]any) bson.M {
	stored := bson.M{}
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = doc["id"]
	return stored
}

func fromStored(stored bson.M) map[string]any {
	doc := make(map[string]any, len(stored))
	for k, v := range stored {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}

func (b *MongoBackend) List(ctx context.Context, coll string, filter map[string]string, sortField, order string) ([]map[string]any, error) {
	query := bson.M{}
	for field, want := range filter {
		query[field] = want
	}

	opts := options.Find()
	if sortField != "" {
		dir := 1
		if order == "desc" {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: sortField, Value: dir}})
	}

	cursor, err := b.db.Collection(coll).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stored []bson.M
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, err
	}

	out := make([]map[string]any, len(stored))
	for i, s := range stored {
		out[i] = fromStored(s)
	}
	return out, nil
}

func (b *MongoBackend) Get(ctx context.Context, coll, id string) (map[string]any, error) {
	var stored bson.M
	err := b.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return fromStored(stored), nil
}

func (b *MongoBackend) Insert(ctx context.Context, coll string, doc map[string]any) error {
	_, err := b.db.Collection(coll).ReplaceOne(
		ctx,
		bson.M{"_id": doc["id"]},
		toStored(doc),
		options.Replace().SetUpsert(true),
	)
	return err
}

func (b *MongoBackend) Replace(ctx context.Context, coll, id string, doc map[string]any) error {
	result, err := b.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, toStored(doc))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (b *MongoBackend) Patch(ctx context.Context, coll, id string, fields map[string]any) (map[string]any, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var stored bson.M
	err := b.db.Collection(coll).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return fromStored(stored), nil
}

func (b *MongoBackend) Delete(ctx context.Context, coll, id string) error {
	result, err := b.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
