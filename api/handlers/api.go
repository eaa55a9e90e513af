package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/api/scheduler"
	"github.com/carebridge/carebridge-api/api/sessions"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.CollectionHelper
	Config   config.Config
	dbHelper databases.DatabaseHelper

	registry *sessions.Registry
	hub      *NotificationHub
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	a.registry = sessions.NewRegistry()
	a.hub = NewNotificationHub(a.registry)
	notifier := &Notifier{DB: databases.NewNotificationDatabase(a.dbHelper), Hub: a.hub}
	mailer := NewSendgridMailer()

	u := User{DB: databases.NewUserDatabase(a.dbHelper), HealthDB: databases.NewHealthcareDatabase(a.dbHelper)}
	h := Healthcare{DB: databases.NewHealthcareDatabase(a.dbHelper), UserDB: databases.NewUserDatabase(a.dbHelper)}
	appt := Appointment{
		DB:       databases.NewAppointmentDatabase(a.dbHelper),
		UserDB:   databases.NewUserDatabase(a.dbHelper),
		ChatDB:   databases.NewChatDatabase(a.dbHelper),
		HealthDB: databases.NewHealthcareDatabase(a.dbHelper),
		Notifier: notifier,
		Mail:     mailer,
	}
	chat := Chat{
		DB:            databases.NewChatDatabase(a.dbHelper),
		MessageDB:     databases.NewMessageDatabase(a.dbHelper),
		AppointmentDB: databases.NewAppointmentDatabase(a.dbHelper),
		Notifier:      notifier,
	}
	n := Notification{DB: databases.NewNotificationDatabase(a.dbHelper)}
	admin := Admin{
		ADB:  databases.NewAdminDatabase(a.dbHelper),
		UDB:  databases.NewUserDatabase(a.dbHelper),
		Mail: mailer,
	}
	announcement := Announcement{DB: databases.NewAnnouncementDatabase(a.dbHelper)}
	medicament := Medicament{DB: databases.NewMedicamentDatabase(a.dbHelper)}
	upload := UploadHandler{}

	rt := Realtime{
		ChatDB:    databases.NewChatDatabase(a.dbHelper),
		MessageDB: databases.NewMessageDatabase(a.dbHelper),
		Registry:  a.registry,
		Notifier:  notifier,
	}
	socketServer := rt.InitializeSocketIO()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// realtime endpoints
	r.Handle("/socket.io/", socketServer)
	r.HandleFunc("/ws/notifications", a.hub.HandleWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", m.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", m.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/me", m.Middleware(http.HandlerFunc(u.MeHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}", m.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}", m.Middleware(http.HandlerFunc(u.UpdateUserByIDHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}/notifications", m.Middleware(http.HandlerFunc(n.GetUserNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}/notifications/{notification_id}/read", m.Middleware(http.HandlerFunc(n.MarkNotificationReadHandler))).Methods("PUT")

	apiCreate.Handle("/healthcare", m.Middleware(http.HandlerFunc(h.HealthcareListHandler))).Methods("GET")
	apiCreate.Handle("/healthcare/{user_id}", m.Middleware(http.HandlerFunc(h.HealthcareByUserIDHandler))).Methods("GET")
	apiCreate.Handle("/healthcare/{user_id}", m.Middleware(api.RequireApprovedHealthcare(http.HandlerFunc(h.UpdateHealthcareHandler)))).Methods("PUT")
	apiCreate.Handle("/healthcare/{healthcare_id}/availability", m.Middleware(http.HandlerFunc(appt.AvailabilityHandler))).Methods("GET")

	apiCreate.Handle("/appointments", m.Middleware(api.RequireRole(http.HandlerFunc(appt.CreateAppointmentHandler), models.RolePatient))).Methods("POST")
	apiCreate.Handle("/appointments", m.Middleware(http.HandlerFunc(appt.AppointmentsHandler))).Methods("GET")
	apiCreate.Handle("/appointments/{appointment_id}/status", m.Middleware(api.RequireApprovedHealthcare(http.HandlerFunc(appt.UpdateAppointmentStatusHandler)))).Methods("PUT")
	apiCreate.Handle("/appointments/{appointment_id}/review", m.Middleware(api.RequireRole(http.HandlerFunc(appt.ReviewAppointmentHandler), models.RolePatient))).Methods("PUT")

	apiCreate.Handle("/chats", m.Middleware(http.HandlerFunc(chat.CreateChatHandler))).Methods("POST")
	apiCreate.Handle("/chats", m.Middleware(http.HandlerFunc(chat.ChatsHandler))).Methods("GET")
	apiCreate.Handle("/chats/{chat_id}/messages", m.Middleware(http.HandlerFunc(chat.ChatMessagesHandler))).Methods("GET")
	apiCreate.Handle("/chats/{chat_id}/messages", m.Middleware(http.HandlerFunc(chat.SendMessageHandler))).Methods("POST")

	apiCreate.Handle("/announcements", m.Middleware(http.HandlerFunc(announcement.AnnouncementsHandler))).Methods("GET")

	apiCreate.Handle("/medicaments", m.Middleware(http.HandlerFunc(medicament.MedicamentsHandler))).Methods("GET")
	apiCreate.Handle("/medicaments", m.Middleware(api.RequireRole(http.HandlerFunc(medicament.CreateMedicamentHandler), models.RolePharmacy, models.RoleLaboratory))).Methods("POST")
	apiCreate.Handle("/medicaments/{medicament_id}", m.Middleware(http.HandlerFunc(medicament.MedicamentByIDHandler))).Methods("GET")
	apiCreate.Handle("/medicaments/{medicament_id}", m.Middleware(api.RequireRole(http.HandlerFunc(medicament.UpdateMedicamentHandler), models.RolePharmacy, models.RoleLaboratory))).Methods("PUT")
	apiCreate.Handle("/medicaments/{medicament_id}", m.Middleware(api.RequireRole(http.HandlerFunc(medicament.DeleteMedicamentHandler), models.RolePharmacy, models.RoleLaboratory))).Methods("DELETE")

	apiCreate.Handle("/generate-signature", m.Middleware(http.HandlerFunc(upload.GenerateSignature))).Methods("POST")
	apiCreate.Handle("/upload", m.Middleware(http.HandlerFunc(upload.UploadFileHandler))).Methods("POST")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/users", api.AdminMiddleware(http.HandlerFunc(admin.AdminUsersHandler))).Methods("GET")
	apiCreate.Handle("/admin/users/{user_id}/approve", api.AdminMiddleware(http.HandlerFunc(admin.ApproveHealthcareHandler))).Methods("PUT")
	apiCreate.Handle("/admin/users/{user_id}/ban", api.AdminMiddleware(http.HandlerFunc(admin.BanUserHandler))).Methods("PUT")
	apiCreate.Handle("/admin/users/{user_id}/unban", api.AdminMiddleware(http.HandlerFunc(admin.UnbanUserHandler))).Methods("PUT")
	apiCreate.Handle("/admin/announcements", api.AdminMiddleware(http.HandlerFunc(announcement.CreateAnnouncementHandler))).Methods("POST")
	apiCreate.Handle("/admin/announcements/{announcement_id}", api.AdminMiddleware(http.HandlerFunc(announcement.UpdateAnnouncementHandler))).Methods("PUT")
	apiCreate.Handle("/admin/announcements/{announcement_id}", api.AdminMiddleware(http.HandlerFunc(announcement.DeleteAnnouncementHandler))).Methods("DELETE")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("carebridge-api has connected to the database")

	if os.Getenv("JWT_SECRET") == "" {
		zap.S().Warn("JWT_SECRET is not set, admin login is disabled")
	}

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// StartScheduler launches the background appointment jobs. Must be called
// after Initialize.
func (a *App) StartScheduler() {
	s := scheduler.NewScheduler(
		databases.NewAppointmentDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		NewSendgridMailer(),
	)
	s.Start()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
