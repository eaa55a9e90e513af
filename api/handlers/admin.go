package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/carebridge-api/api"
	"github.com/carebridge/carebridge-api/config"
	"github.com/carebridge/carebridge-api/databases"
	"github.com/carebridge/carebridge-api/models"
	html "github.com/carebridge/carebridge-api/templates/html"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"admin"`
}

// Admin represents the admin handler
type Admin struct {
	ADB  databases.AdminDatabase
	UDB  databases.UserDatabase
	Mail Mailer
}

// AdminLoginHandler handles admin login via email/password and returns a JWT
func (h Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid request"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "email and password required"})
		return
	}

	admin, err := h.ADB.FindOne(r.Context(), bson.M{"email": email, "active": true})
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "server misconfigured"})
		return
	}

	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"email": admin.Email,
		"scope": "admin",
		"typ":   "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "token generation failed"})
		return
	}

	var resp adminLoginResponse
	resp.Token = signed
	resp.Admin.ID = admin.ID.Hex()
	resp.Admin.Email = admin.Email
	resp.Admin.Name = admin.Name

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// AdminUsersHandler lists accounts for the admin dashboard, optionally
// filtered by role or approval state
func (h Admin) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["user.role"] = role
	}
	if approved := r.URL.Query().Get("approved"); approved != "" {
		parsed, err := strconv.ParseBool(approved)
		if err != nil {
			config.ErrorStatus("approved must be true or false", http.StatusBadRequest, w, err)
			return
		}
		filter["user.approved"] = parsed
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	limit := 50
	page := 0
	if parsed, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && parsed >= 0 {
		page = parsed
	}
	users, err := h.UDB.Find(ctx, filter, databases.Paginate(limit, page))
	if err != nil {
		config.ErrorStatus("failed to get users", http.StatusNotFound, w, err)
		return
	}
	for i := range users {
		users[i].Details.Password = ""
	}

	b, err := json.Marshal(users)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ApproveHealthcareHandler marks a provider account as approved and emails
// them, best effort
func (h Admin) ApproveHealthcareHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := h.UDB.UpdateOne(ctx,
		bson.M{"_id": userID, "user.role": bson.M{"$in": models.HealthcareRoles}},
		bson.M{"$set": bson.M{
			"user.approved":  true,
			"user.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to approve user", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("healthcare user not found", http.StatusNotFound, w, errNotFound)
		return
	}

	if user, err := h.UDB.FindOne(ctx, bson.M{"_id": userID}); err == nil {
		subject, plain, body := html.RenderAccountApprovedEmail(user.Details.Name)
		sendEmailBestEffort(h.Mail, user.Details.Email, subject, plain, body)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Healthcare provider approved"}`))
}

// BanUserHandler bans an account; banned users fail authentication until
// unbanned
func (h Admin) BanUserHandler(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

// UnbanUserHandler lifts a ban
func (h Admin) UnbanUserHandler(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h Admin) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := h.UDB.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"user.banned":    banned,
			"user.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, errNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if banned {
		w.Write([]byte(`{"message": "User banned"}`))
	} else {
		w.Write([]byte(`{"message": "User unbanned"}`))
	}
}
