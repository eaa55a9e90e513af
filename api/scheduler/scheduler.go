package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
	html "github.com/carebridge/carebridge-api/templates/html"
)

// Mailer matches the handler package's mail sender; injected so tests can
// capture reminder sends.
type Mailer interface {
	Send(toEmail, subject, plainTextContent, htmlContent string) error
}

// Scheduler handles the periodic appointment jobs
type Scheduler struct {
	cron *cron.Cron
	ADB  databases.AppointmentDatabase
	UDB  databases.UserDatabase
	Mail Mailer
}

// NewScheduler creates a new scheduler instance
func NewScheduler(aDB databases.AppointmentDatabase, uDB databases.UserDatabase, mailer Mailer) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		ADB:  aDB,
		UDB:  uDB,
		Mail: mailer,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep elapsed active appointments into completed every 10 minutes
	_, err := s.cron.AddFunc("*/10 * * * *", s.CompleteElapsedAppointments)
	if err != nil {
		zap.S().Errorw("failed to register completion sweep job", "error", err)
	}

	// Remind patients of tomorrow's appointments daily at 7 AM UTC
	_, err = s.cron.AddFunc("0 7 * * *", s.SendAppointmentReminders)
	if err != nil {
		zap.S().Errorw("failed to register reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Appointment scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Appointment scheduler stopped")
}

// CompleteElapsedAppointments marks active appointments whose slot has fully
// passed as completed, which opens them up for patient review.
func (s *Scheduler) CompleteElapsedAppointments() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	active, err := s.ADB.Find(ctx, bson.M{
		"status": models.AppointmentActive,
		"start":  bson.M{"$lt": primitive.NewDateTimeFromTime(now)},
	})
	if err != nil {
		zap.S().Errorw("completion sweep failed to list active appointments", "error", err)
		return
	}

	completed := 0
	for _, appointment := range active {
		end := appointment.Start.Time().Add(time.Duration(appointment.Duration) * time.Minute)
		if end.After(now) {
			continue
		}
		_, err := s.ADB.UpdateOne(ctx,
			bson.M{"_id": appointment.ID, "status": models.AppointmentActive},
			bson.M{"$set": bson.M{
				"status":    models.AppointmentCompleted,
				"updatedAt": primitive.NewDateTimeFromTime(now),
			}},
		)
		if err != nil {
			zap.S().Errorw("failed to complete appointment",
				"appointmentID", appointment.ID.Hex(), "error", err)
			continue
		}
		completed++
	}
	if completed > 0 {
		zap.S().Infow("completion sweep finished", "completed", completed)
	}
}

// SendAppointmentReminders emails patients about active appointments starting
// within the next 24 hours. Reminder email is best effort.
func (s *Scheduler) SendAppointmentReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	now := time.Now()
	upcoming, err := s.ADB.Find(ctx, bson.M{
		"status": models.AppointmentActive,
		"start": bson.M{
			"$gte": primitive.NewDateTimeFromTime(now),
			"$lt":  primitive.NewDateTimeFromTime(now.Add(24 * time.Hour)),
		},
	})
	if err != nil {
		zap.S().Errorw("reminder job failed to list appointments", "error", err)
		return
	}

	for _, appointment := range upcoming {
		patient, err := s.UDB.FindOne(ctx, bson.M{"_id": appointment.PatientID})
		if err != nil {
			zap.S().Errorw("reminder job failed to load patient",
				"appointmentID", appointment.ID.Hex(), "error", err)
			continue
		}

		providerName := "your healthcare provider"
		if provider, err := s.UDB.FindOne(ctx, bson.M{"_id": appointment.HealthcareID}); err == nil {
			providerName = provider.Details.Name
		}

		subject, plain, body := html.RenderAppointmentReminderEmail(providerName, appointment.Start.Time())
		if err := s.Mail.Send(patient.Details.Email, subject, plain, body); err != nil {
			zap.S().Errorw("failed to send reminder email",
				"appointmentID", appointment.ID.Hex(), "error", err)
		}
	}
}
