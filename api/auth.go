package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type AuthHandler struct {
	userRepo      repository.UserRepo
	profileRepo   repository.ProfileRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, pr repository.ProfileRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, profileRepo: pr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var req models.SignupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := validatePayload(r.Context(), signupSchema, body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, signupMessage(err), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	user := models.User{Email: req.Email, PasswordHash: string(hash)}
	userID, err := h.userRepo.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			http.Error(w, "This email is already registered", http.StatusConflict)
			return
		}
		logger.Error("create user", slog.Any("err", err))
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		UserID:   userID,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if req.Role == models.RoleProvider {
		profile.OrganizationName = req.OrganizationName
	}
	if _, err := h.profileRepo.CreateProfile(ctx, &profile); err != nil {
		logger.Error("create profile", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error creating user profile", http.StatusInternalServerError)
		return
	}

	h.respondWithToken(w, profile)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || user == nil {
		http.Error(w, "Invalid login credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Invalid login credentials", http.StatusUnauthorized)
		return
	}

	profile, err := h.profileRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		logger.Error("load profile", slog.Any("err", err), slog.Int64("user_id", user.ID))
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		// accounts created outside signup may lack a profile row
		profile = &models.Profile{UserID: user.ID, Email: user.Email, Role: models.RoleUser}
	}

	h.respondWithToken(w, *profile)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

// Me returns the caller's profile. A token whose account is gone is
// treated as unauthorized.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, profile, err := h.loadAccount(r, userID)
	if err != nil {
		logger.Error("load account", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Account not found", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateMe rewrites the caller's display name and, for providers, the
// organization name shown on new listings.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	var req models.ProfileUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := validatePayload(r.Context(), profileSchema, body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Full name is required", http.StatusBadRequest)
		return
	}

	user, profile, err := h.loadAccount(r, userID)
	if err != nil {
		logger.Error("load account", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error loading profile", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Account not found", http.StatusUnauthorized)
		return
	}
	if profile.ID == 0 {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	profile.FullName = req.FullName
	if profile.IsProvider() && req.OrganizationName != "" {
		profile.OrganizationName = req.OrganizationName
	}
	if err := h.profileRepo.UpdateProfile(r.Context(), profile); err != nil {
		logger.Error("update profile", slog.Any("err", err), slog.Int64("user_id", userID))
		http.Error(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// loadAccount returns the user and its profile. The user is nil when the
// account does not exist; a missing profile row falls back to a plain user
// profile with a zero ID.
func (h *AuthHandler) loadAccount(r *http.Request, userID int64) (*models.User, *models.Profile, error) {
	ctx := r.Context()
	user, err := h.userRepo.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return nil, nil, err
	}

	profile, err := h.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		profile = &models.Profile{UserID: user.ID, Email: user.Email, Role: models.RoleUser}
	}
	return user, profile, nil
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, p models.Profile) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": p.UserID,
		"role":    string(p.Role),
		"email":   p.Email,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: tokenStr, Profile: p})
}

func signupMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	switch fe := verrs[0]; fe.Field() {
	case "Email":
		return "Invalid email address"
	case "Password":
		return "Password must be at least 6 characters"
	case "FullName":
		return "Full name is required"
	case "OrganizationName":
		return "Organization name is required for providers"
	case "Role":
		return "Role must be user or provider"
	}
	return "Invalid request"
}
