package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gerrors "github.com/matzehuels/gridslot/pkg/errors"
	gridio "github.com/matzehuels/gridslot/pkg/io"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "gridslot"
	DefaultMongoCollection = "layouts"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

func (o *MongoOptions) setDefaults() error {
	if o.URI == "" {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if o.Database == "" {
		o.Database = DefaultMongoDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultMongoCollection
	}
	return nil
}

// mongoRecord is the stored form. The document is kept as JSON so slot
// parameters survive with the same types every other backend returns.
type mongoRecord struct {
	Name      string    `bson:"_id"`
	Revision  string    `bson:"revision"`
	UpdatedAt time.Time `bson:"updated_at"`
	Rows      int       `bson:"rows"`
	Slots     int       `bson:"slots"`
	Document  string    `bson:"document"`
}

// MongoStore keeps records in a MongoDB collection keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects and pings the server.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Record, error) {
	var mr mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&mr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("finding layout: %w", err)
	}
	return mr.record()
}

func (s *MongoStore) Put(ctx context.Context, name string, doc *gridio.Document) (*Record, error) {
	rec, err := newRecord(name, doc)
	if err != nil {
		return nil, err
	}
	mr, err := toMongo(rec)
	if err != nil {
		return nil, err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, mr, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("saving layout: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"document": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []Summary
	for cur.Next(ctx) {
		var mr mongoRecord
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decoding layout: %w", err)
		}
		out = append(out, mr.summary())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating layouts: %w", err)
	}
	return out, nil
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toMongo(rec *Record) (mongoRecord, error) {
	data, err := gridio.Marshal(rec.Document)
	if err != nil {
		return mongoRecord{}, fmt.Errorf("encoding layout: %w", err)
	}
	sum := rec.Summary()
	return mongoRecord{
		Name:      rec.Name,
		Revision:  rec.Revision,
		UpdatedAt: rec.UpdatedAt,
		Rows:      sum.Rows,
		Slots:     sum.Slots,
		Document:  string(data),
	}, nil
}

func (mr mongoRecord) summary() Summary {
	return Summary{
		Name:      mr.Name,
		Revision:  mr.Revision,
		UpdatedAt: mr.UpdatedAt.UTC(),
		Rows:      mr.Rows,
		Slots:     mr.Slots,
	}
}

func (mr mongoRecord) record() (*Record, error) {
	doc, err := gridio.Unmarshal([]byte(mr.Document))
	if err != nil {
		return nil, fmt.Errorf("decoding layout %s: %w", mr.Name, err)
	}
	return &Record{
		Name:      mr.Name,
		Revision:  mr.Revision,
		UpdatedAt: mr.UpdatedAt.UTC(),
		Document:  doc,
	}, nil
}

var _ Store = (*MongoStore)(nil)
