package dbclient

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"bizloader/internal/domain"
)

// mongoConnector implements Connector for MongoDB.
type mongoConnector struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

func newMongoConnector(conn *domain.DatabaseConnection, logger *zap.Logger) (*mongoConnector, error) {
	if conn.Database == "" || conn.Collection == "" {
		return nil, fmt.Errorf("mongo sink needs a database and a collection")
	}

	logger = logger.With(zap.String("sink", "mongodb"))
	logger.Debug("connecting",
		zap.String("uri", MaskURI(conn.URI)),
		zap.String("database", conn.Database),
		zap.String("collection", conn.Collection),
	)

	clientOpts := options.Client().
		ApplyURI(conn.URI).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		logger.Error("connect failed", zap.Error(err))
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &mongoConnector{
		client: client,
		coll:   client.Database(conn.Database).Collection(conn.Collection),
		logger: logger,
	}, nil
}

func (m *mongoConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

func (m *mongoConnector) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "businessName", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("businessName_unique"),
	}
	name, err := m.coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	m.logger.Debug("index ready", zap.String("index", name))
	return nil
}

func (m *mongoConnector) InsertMany(ctx context.Context, records []domain.Business) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	docs := make([]any, len(records))
	for i := range records {
		docs[i] = records[i]
	}

	res, err := m.coll.InsertMany(ctx, docs)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		m.logger.Error("insertMany failed", zap.Int("inserted", inserted), zap.Error(err))
		if mongo.IsDuplicateKeyError(err) {
			return inserted, fmt.Errorf("insertMany: duplicate businessName: %w", err)
		}
		return inserted, fmt.Errorf("insertMany: %w", err)
	}

	m.logger.Info("inserted documents", zap.Int("count", inserted))
	return inserted, nil
}

func (m *mongoConnector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
