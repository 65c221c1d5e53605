// Package history persists a record of each layout run so a caller can
// look one up later by run ID: what graph it was, what configuration was
// used, which stages ran and how long the whole run took.
//
// Grounded on the teacher's pkg/cache (the Cache/Keyer split) for the
// shape of a pluggable persistence layer, and on go.mongodb.org/mongo-
// driver's own idiomatic client/collection API (no file in the retrieval
// pack exercises mongo-driver outside its own vendored test internals, so
// this follows the driver's documented usage rather than a pack example).
package history

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sugilayout/sugilayout/pkg/layouterr"
)

// Run is the persisted record of a single layout.Engine.Run invocation.
type Run struct {
	RunID      string    `bson:"run_id"`
	GraphHash  string    `bson:"graph_hash"`
	Config     Config    `bson:"config"`
	NodeCount  int       `bson:"node_count"`
	EdgeCount  int       `bson:"edge_count"`
	StageNames []string  `bson:"stage_names"`
	Duration   int64     `bson:"duration_ns"`
	CreatedAt  time.Time `bson:"created_at"`
}

// Config is the subset of layout.Config worth recording for later lookup.
// It is a plain struct (not layout.Config itself) so this package does not
// depend on pkg/layout, avoiding an import cycle with callers that build a
// Store from inside an HTTP handler that already imports both.
type Config struct {
	RankDir      string  `bson:"rank_dir"`
	NodeSep      float64 `bson:"node_sep"`
	EdgeSep      float64 `bson:"edge_sep"`
	RankSep      float64 `bson:"rank_sep"`
	UniversalSep float64 `bson:"universal_sep"`
	UseSimplex   bool    `bson:"use_simplex"`
}

// Store records and retrieves layout Runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	Get(ctx context.Context, runID string) (Run, error)
	Close(ctx context.Context) error
}

// MongoStore implements Store on top of a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and returns a Store backed by
// database.layout_runs.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, layouterr.Wrap(layouterr.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, layouterr.Wrap(layouterr.ErrCodeNetwork, err, "ping mongo")
	}
	coll := client.Database(database).Collection("layout_runs")
	return &MongoStore{client: client, coll: coll}, nil
}

// Record upserts run, keyed by RunID.
func (s *MongoStore) Record(ctx context.Context, run Run) error {
	filter := bson.M{"run_id": run.RunID}
	update := bson.M{"$set": run}
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return layouterr.Wrap(layouterr.ErrCodeNetwork, err, "record run %s", run.RunID)
	}
	return nil
}

// Get fetches a run by ID.
func (s *MongoStore) Get(ctx context.Context, runID string) (Run, error) {
	var run Run
	err := s.coll.FindOne(ctx, bson.M{"run_id": runID}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return Run{}, layouterr.New(layouterr.ErrCodeRunNotFound, "run %s not found", runID)
	}
	if err != nil {
		return Run{}, layouterr.Wrap(layouterr.ErrCodeNetwork, err, "get run %s", runID)
	}
	return run, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// NullStore discards every record and reports every lookup as not found.
// Used when no history backend is configured.
type NullStore struct{}

func (NullStore) Record(context.Context, Run) error { return nil }

func (NullStore) Get(_ context.Context, runID string) (Run, error) {
	return Run{}, layouterr.New(layouterr.ErrCodeRunNotFound, "run %s not found", runID)
}

func (NullStore) Close(context.Context) error { return nil }

var _ Store = (*MongoStore)(nil)
var _ Store = NullStore{}
