package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoService owns a connected mongo client and the application database.
type MongoService struct {
	Client *mongo.Client
	DB     *mongo.Database
	logger logrus.FieldLogger
}

func NewMongoService(ctx context.Context, uri, dbName string, logger logrus.FieldLogger) (*MongoService, error) {
	if uri == "" {
		return nil, errors.New("missing MONGODB_URI")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}

	s := &MongoService{
		Client: client,
		DB:     client.Database(dbName),
		logger: logger.WithFields(logrus.Fields{"component": "mongo", "database": dbName}),
	}
	if err := s.Ping(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("could not ping mongodb: %w", err)
	}
	s.logger.Info("connected to mongodb")
	return s, nil
}

func (s *MongoService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *MongoService) Close(ctx context.Context) error {
	s.logger.Info("disconnecting from mongodb")
	return s.Client.Disconnect(ctx)
}
