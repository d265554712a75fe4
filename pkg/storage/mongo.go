package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

// MongoCollection is the collection artifacts are written to.
const MongoCollection = "artifacts"

// MongoStore keeps artifacts as documents keyed by id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the artifacts collection of
// database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
	}, nil
}

// artifactDoc is the stored document shape.
type artifactDoc struct {
	ID          string    `bson:"_id"`
	Format      string    `bson:"format"`
	ContentType string    `bson:"content_type"`
	Data        []byte    `bson:"data"`
	Expression  string    `bson:"expression"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toDoc(a *Artifact) artifactDoc {
	return artifactDoc{
		ID:          a.ID,
		Format:      a.Format,
		ContentType: a.ContentType,
		Data:        a.Data,
		Expression:  a.Expression,
		CreatedAt:   a.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

func (d artifactDoc) artifact() *Artifact {
	return &Artifact{
		ID:          d.ID,
		Format:      d.Format,
		ContentType: d.ContentType,
		Data:        d.Data,
		Expression:  d.Expression,
		CreatedAt:   d.CreatedAt,
	}
}

func (s *MongoStore) Put(ctx context.Context, a *Artifact) error {
	if err := check(a); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": a.ID}, toDoc(a), options.Replace().SetUpsert(true))
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeStorage, err, "upsert artifact %s", a.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Artifact, error) {
	var doc artifactDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeStorage, err, "find artifact %s", id)
	}
	return doc.artifact(), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
