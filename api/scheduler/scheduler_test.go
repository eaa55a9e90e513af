package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/carebridge-api/databases/mocks"
	"github.com/carebridge/carebridge-api/models"
)

type captureMailer struct {
	sent   int
	lastTo string
}

func (c *captureMailer) Send(toEmail, subject, plainTextContent, htmlContent string) error {
	c.sent++
	c.lastTo = toEmail
	return nil
}

func TestCompleteElapsedAppointments(t *testing.T) {
	now := time.Now()
	elapsed := models.Appointment{
		ID:       primitive.NewObjectID(),
		Start:    primitive.NewDateTimeFromTime(now.Add(-2 * time.Hour)),
		Duration: 30,
		Status:   models.AppointmentActive,
	}
	// started but the slot has not fully passed yet
	inProgress := models.Appointment{
		ID:       primitive.NewObjectID(),
		Start:    primitive.NewDateTimeFromTime(now.Add(-10 * time.Minute)),
		Duration: 60,
		Status:   models.AppointmentActive,
	}

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Appointment{elapsed, inProgress}, nil)
	apptDB.On("UpdateOne", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		f, ok := filter.(bson.M)
		return ok && f["_id"] == elapsed.ID
	}), mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	s := NewScheduler(apptDB, nil, nil)
	s.CompleteElapsedAppointments()

	apptDB.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestSendAppointmentReminders(t *testing.T) {
	now := time.Now()
	patientID := primitive.NewObjectID().Hex()
	providerID := primitive.NewObjectID().Hex()
	upcoming := models.Appointment{
		ID:           primitive.NewObjectID(),
		PatientID:    patientID,
		HealthcareID: providerID,
		Start:        primitive.NewDateTimeFromTime(now.Add(5 * time.Hour)),
		Duration:     30,
		Status:       models.AppointmentActive,
	}

	apptDB := mocks.NewAppointmentDatabase(t)
	apptDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Appointment{upcoming}, nil)

	userDB := mocks.NewUserDatabase(t)
	userDB.On("FindOne", mock.Anything, bson.M{"_id": patientID}).Return(&models.User{
		ID:      patientID,
		Details: models.UserDetails{Name: "Alice Martin", Email: "alice@example.com"},
	}, nil)
	userDB.On("FindOne", mock.Anything, bson.M{"_id": providerID}).Return(&models.User{
		ID:      providerID,
		Details: models.UserDetails{Name: "Dr. Dupont"},
	}, nil)

	mailer := &captureMailer{}
	s := NewScheduler(apptDB, userDB, mailer)
	s.SendAppointmentReminders()

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "alice@example.com", mailer.lastTo)
}
