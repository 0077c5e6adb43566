package datastores

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type MongoOptions struct {
	MongoURI        string        `doc:"MongoDB connection string, empty keeps doohickeys in memory" default:"mongodb://localhost:27017"`
	MongoDatabase   string        `doc:"MongoDB database name"                                        default:"demo_db"`
	MongoCollection string        `doc:"MongoDB collection holding doohickeys"                        default:"doohickeys"`
	MongoTimeout    time.Duration `doc:"MongoDB client operation timeout"                             default:"10s"`
}

// DoohickeysMongo implements [DoohickeysStore] on a MongoDB collection.
type DoohickeysMongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ DoohickeysStore = (*DoohickeysMongo)(nil)

// doohickeyDocument decodes any _id, the collection is schema-less and
// only documents created here are known to carry an ObjectID.
type doohickeyDocument struct {
	ID          any    `bson:"_id,omitempty"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

// NewDoohickeysMongo connects to the collection described by options.
//
// The driver dials lazily, so an unreachable server is only reported by the
// initial ping: it is logged and the store is returned anyway; later calls
// fail until the server can be reached. A configuration the driver rejects
// yields a [DoohickeysUnavailable].
func NewDoohickeysMongo(ctx context.Context, o *MongoOptions, logger *slog.Logger) DoohickeysStore {
	opts := options.Client().ApplyURI(o.MongoURI)
	if o.MongoTimeout > 0 {
		opts.SetTimeout(o.MongoTimeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Error("failed to connect to the db server", "err", err)
		return DoohickeysUnavailable{Cause: err}
	}

	s := &DoohickeysMongo{
		client:     client,
		collection: client.Database(o.MongoDatabase).Collection(o.MongoCollection),
	}
	if err := s.Ping(ctx); err != nil {
		logger.Error("failed to reach the db server", "err", err)
	} else {
		logger.Info("connected successfully to the db server",
			"database", o.MongoDatabase,
			"collection", o.MongoCollection)
	}
	return s
}

func (s *DoohickeysMongo) Create(ctx context.Context, d *Doohickey) (DoohickeyID, error) {
	res, err := s.collection.InsertOne(ctx, doohickeyDocument{Name: d.Name, Description: d.Description})
	if err != nil {
		return "", fmt.Errorf("insert doohickey: %w", err)
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert doohickey: unexpected id type %T", res.InsertedID)
	}
	d.ID = oid.Hex()
	return d.ID, nil
}

func (s *DoohickeysMongo) List(ctx context.Context) ([]*Doohickey, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find doohickeys: %w", err)
	}
	var docs []doohickeyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read doohickeys: %w", err)
	}
	ds := make([]*Doohickey, 0, len(docs))
	for _, doc := range docs {
		ds = append(ds, &Doohickey{
			ID:          documentID(doc.ID),
			Name:        doc.Name,
			Description: doc.Description,
		})
	}
	return ds, nil
}

// documentID is the text form of a document _id.
func documentID(id any) DoohickeyID {
	switch id := id.(type) {
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func (s *DoohickeysMongo) Delete(ctx context.Context, id DoohickeyID) error {
	var filter bson.D
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		filter = bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, id}}}}}
	} else {
		filter = bson.D{{Key: "_id", Value: id}}
	}
	_, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete doohickey: %w", err)
	}
	return nil
}

func (s *DoohickeysMongo) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the client connections.
func (s *DoohickeysMongo) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
