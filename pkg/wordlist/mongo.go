package wordlist

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "words"

var ErrConfParamMissing = fmt.Errorf("configuration parameter missing")

type MongoConfig struct {
	Host   string `toml:"host"`
	Port   string `toml:"port"`
	DBName string `toml:"dbName"`
	User   string `toml:"user"`
	Pass   string `toml:"pass"`
}

func (c *MongoConfig) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: mongo host", ErrConfParamMissing)
	case c.Port == "":
		return fmt.Errorf("%w: mongo port", ErrConfParamMissing)
	case c.DBName == "":
		return fmt.Errorf("%w: mongo dbName", ErrConfParamMissing)
	}
	return nil
}

func (c *MongoConfig) conString() string {
	if c.User != "" && c.Pass != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/", c.User, c.Pass, c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s/", c.Host, c.Port)
}

type wordDoc struct {
	List     string `bson:"list"`
	Term     string `bson:"term"`
	Position int    `bson:"position"`
}

// MongoSource reads the lists from the "words" collection, one document per term.
type MongoSource struct {
	client *mongo.Client
	dbName string
}

func NewMongoSource(ctx context.Context, conf *MongoConfig) (*MongoSource, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.conString()))
	if err != nil {
		return nil, err
	}

	return &MongoSource{client: client, dbName: conf.DBName}, nil
}

func (s *MongoSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoSource) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

func (s *MongoSource) Load(ctx context.Context) (*Lists, error) {
	coll := s.client.Database(s.dbName).Collection(mongoCollection)
	opts := options.Find().SetSort(bson.D{{Key: "list", Value: 1}, {Key: "position", Value: 1}})

	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}

	var docs []wordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	raw := make(map[string][]string)
	for _, d := range docs {
		raw[d.List] = append(raw[d.List], d.Term)
	}

	lists := New(raw)
	if err := lists.Validate(); err != nil {
		return nil, err
	}

	return lists, nil
}

// insert stores terms for one list, keeping their order in position.
func (s *MongoSource) insert(ctx context.Context, list string, terms []string) error {
	coll := s.client.Database(s.dbName).Collection(mongoCollection)
	docs := make([]any, 0, len(terms))
	for i, t := range terms {
		docs = append(docs, wordDoc{List: list, Term: t, Position: i})
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func (s *MongoSource) drop(ctx context.Context) error {
	return s.client.Database(s.dbName).Collection(mongoCollection).Drop(ctx)
}
