package databases

// go generate: mockery --name MedicamentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/carebridge-api/models"
)

const medicamentName = "medicaments"

// MedicamentDatabase contains the methods to use with the medicament database
type MedicamentDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Medicament, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Medicament, error)
	InsertOne(ctx context.Context, document interface{}) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) error
}

type medicamentDatabase struct {
	db DatabaseHelper
}

// NewMedicamentDatabase initializes a new instance of medicament database
// with the provided db connection
func NewMedicamentDatabase(db DatabaseHelper) MedicamentDatabase {
	return &medicamentDatabase{
		db: db,
	}
}

func (m *medicamentDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Medicament, error) {
	medicament := &models.Medicament{}
	err := m.db.Collection(medicamentName).FindOne(ctx, filter).Decode(&medicament)
	if err != nil {
		return nil, err
	}
	return medicament, nil
}

func (m *medicamentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Medicament, error) {
	var medicaments []models.Medicament
	curr, err := m.db.Collection(medicamentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &medicaments)
	if err != nil {
		return nil, err
	}
	return medicaments, nil
}

func (m *medicamentDatabase) InsertOne(ctx context.Context, document interface{}) (InsertOneResultHelper, error) {
	return m.db.Collection(medicamentName).InsertOne(ctx, document)
}

func (m *medicamentDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.db.Collection(medicamentName).UpdateOne(ctx, filter, update, opts...)
}

func (m *medicamentDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return m.db.Collection(medicamentName).DeleteOne(ctx, filter)
}
