package main

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/logging"
	"github.com/carebridge/carebridge-api/models"
)

// seedPassword is the shared dev password for every generated account
const seedPassword = "carebridge-dev"

func main() {
	sugar := logging.New()
	sugar.Info("seed starting")

	_ = godotenv.Load()
	conf := config.New()

	client, err := databases.NewClient(conf)
	if err != nil {
		sugar.Fatalf("create mongo client: %v", err)
	}
	if err := client.Connect(); err != nil {
		sugar.Fatalf("connect mongo: %v", err)
	}
	db := databases.NewDatabase(conf, client)

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		sugar.Fatalf("hash seed password: %v", err)
	}

	if err := seedPatients(ctx, db, string(hash), 25); err != nil {
		sugar.Fatalf("seed patients: %v", err)
	}
	if err := seedProviders(ctx, db, string(hash), 12); err != nil {
		sugar.Fatalf("seed providers: %v", err)
	}

	sugar.Info("seed complete")
}

func seedPatients(ctx context.Context, db databases.DatabaseHelper, passwordHash string, count int) error {
	zap.S().Infof("seeding %d patients", count)
	users := databases.NewUserDatabase(db)

	for i := 0; i < count; i++ {
		now := primitive.NewDateTimeFromTime(time.Now())
		user := models.User{
			ID: primitive.NewObjectID().Hex(),
			Details: models.UserDetails{
				Name:      gofakeit.Name(),
				Email:     gofakeit.Email(),
				Password:  passwordHash,
				Role:      models.RolePatient,
				Approved:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		if _, err := users.InsertOne(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

func seedProviders(ctx context.Context, db databases.DatabaseHelper, passwordHash string, count int) error {
	zap.S().Infof("seeding %d healthcare providers", count)
	users := databases.NewUserDatabase(db)
	profiles := databases.NewHealthcareDatabase(db)

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Pediatrics",
		"Neurology",
	}
	workingHours := []string{
		"9 AM - 5 PM",
		"8 AM - 4 PM",
		"10 AM - 6 PM",
		"24/7",
	}

	for i := 0; i < count; i++ {
		role := models.HealthcareRoles[gofakeit.Number(0, len(models.HealthcareRoles)-1)]
		now := primitive.NewDateTimeFromTime(time.Now())
		user := models.User{
			ID: primitive.NewObjectID().Hex(),
			Details: models.UserDetails{
				Name:      gofakeit.Name(),
				Email:     gofakeit.Email(),
				Password:  passwordHash,
				Role:      role,
				Approved:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		if _, err := users.InsertOne(ctx, user); err != nil {
			return err
		}

		profile := models.HealthcareProfile{
			ID:           primitive.NewObjectID(),
			UserID:       user.ID,
			Kind:         role,
			WorkingHours: workingHours[gofakeit.Number(0, len(workingHours)-1)],
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		switch role {
		case models.RoleDoctor:
			profile.Doctor = &models.DoctorProfile{
				Specialty:       specialties[gofakeit.Number(0, len(specialties)-1)],
				ConsultationFee: float64(gofakeit.Number(20, 150)),
			}
		case models.RoleNurse:
			profile.Nurse = &models.NurseProfile{
				YearsExperience: gofakeit.Number(1, 30),
				Ward:            gofakeit.City(),
			}
		case models.RolePharmacy:
			profile.Pharmacy = &models.PharmacyProfile{
				Address:      gofakeit.Address().Address,
				DeliveryArea: gofakeit.City(),
			}
		case models.RoleLaboratory:
			profile.Laboratory = &models.LaboratoryProfile{
				Address:  gofakeit.Address().Address,
				Analyses: []string{"blood panel", "urinalysis", "lipid profile"},
			}
		}
		if _, err := profiles.InsertOne(ctx, profile); err != nil {
			return err
		}
	}
	return nil
}
