package databases

// go generate: mockery --name HealthcareDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/carebridge-api/models"
)

const healthcareName = "healthcare"

// HealthcareDatabase contains the methods to use with the healthcare profile
// database
type HealthcareDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.HealthcareProfile, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.HealthcareProfile, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type healthcareDatabase struct {
	db DatabaseHelper
}

// NewHealthcareDatabase initializes a new instance of healthcare database
// with the provided db connection
func NewHealthcareDatabase(db DatabaseHelper) HealthcareDatabase {
	return &healthcareDatabase{
		db: db,
	}
}

func (h *healthcareDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.HealthcareProfile, error) {
	profile := &models.HealthcareProfile{}
	err := h.db.Collection(healthcareName).FindOne(ctx, filter, opts...).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (h *healthcareDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.HealthcareProfile, error) {
	var profiles []models.HealthcareProfile
	curr, err := h.db.Collection(healthcareName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &profiles)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (h *healthcareDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return h.db.Collection(healthcareName).InsertOne(ctx, document, opts...)
}

func (h *healthcareDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return h.db.Collection(healthcareName).UpdateOne(ctx, filter, update, opts...)
}
