package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/auth"
	"github.com/example/delicias-storefront/internal/sandbox/middleware"
)

const (
	msgRequired           = "Este campo es requerido."
	msgInvalidEmail       = "Introduzca una dirección de correo electrónico válida."
	msgUsernameTaken      = "Ya existe un usuario con este nombre."
	msgPasswordMismatch   = "Las contraseñas no coinciden"
	msgInvalidCredentials = "Credenciales inválidas"
)

// passwordLengthMessage renders a policy violation the way the signup form
// shows it.
func passwordLengthMessage(e *auth.LengthError) string {
	if e.TooLong {
		return fmt.Sprintf("La contraseña no puede superar %d bytes.", e.Limit)
	}
	return fmt.Sprintf("La contraseña debe tener al menos %d caracteres.", e.Limit)
}

// AuthHandlers handles registration, login and logout
type AuthHandlers struct {
	accounts   *Accounts
	jwtService *auth.JWTService
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewAuthHandlers(accounts *Accounts, jwtService *auth.JWTService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		accounts:   accounts,
		jwtService: jwtService,
		validate:   validator.New(),
		logger:     logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Telefono        string `json:"telefono"`
	Direccion       string `json:"direccion"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Perfil    ProfileResponse `json:"perfil"`
}

type ProfileResponse struct {
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
}

// RegisteredResponse echoes the created account. The id is not part of it.
type RegisteredResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func userResponse(acc Account) UserResponse {
	return UserResponse{
		ID:        acc.ID,
		Username:  acc.Username,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Perfil:    ProfileResponse{Telefono: acc.Telefono, Direccion: acc.Direccion},
	}
}

// Register validates fields first and the password pair second. It does not
// start a session.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, "JSON inválido.", http.StatusBadRequest)
		return
	}

	if errs := h.validateRegistration(req); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, errs)
		return
	}
	if req.Password != req.PasswordConfirm {
		respondJSON(w, http.StatusBadRequest, fieldErrors{"non_field_errors": {msgPasswordMismatch}})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		respondJSONError(w, "Error interno", http.StatusInternalServerError)
		return
	}

	acc, err := h.accounts.Create(Account{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Telefono:     req.Telefono,
		Direccion:    req.Direccion,
		PasswordHash: hash,
	})
	if errors.Is(err, ErrUsernameTaken) {
		respondJSON(w, http.StatusBadRequest, fieldErrors{"username": {msgUsernameTaken}})
		return
	}
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.logger.Info("user registered", zap.Int64("user_id", acc.ID), zap.String("username", acc.Username))
	respondJSON(w, http.StatusCreated, RegisteredResponse{
		Username:  acc.Username,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
	})
}

func (h *AuthHandlers) validateRegistration(req RegisterRequest) fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs.add("username", msgRequired)
	} else if h.accounts.Exists(req.Username) {
		errs.add("username", msgUsernameTaken)
	}
	if req.Email != "" && h.validate.Var(req.Email, "email") != nil {
		errs.add("email", msgInvalidEmail)
	}
	var lenErr *auth.LengthError
	switch err := auth.ValidatePassword(req.Password); {
	case req.Password == "":
		errs.add("password", msgRequired)
	case errors.As(err, &lenErr):
		errs.add("password", passwordLengthMessage(lenErr))
	}
	if req.PasswordConfirm == "" {
		errs.add("password_confirm", msgRequired)
	}
	return errs
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, msgInvalidCredentials, http.StatusBadRequest)
		return
	}

	acc, exists := h.accounts.ByUsername(req.Username)
	if !exists || !auth.CheckPassword(req.Password, acc.PasswordHash) {
		respondJSONError(w, msgInvalidCredentials, http.StatusBadRequest)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateSessionToken(acc.ID, acc.Username)
	if err != nil {
		h.logger.Error("failed to sign session token", zap.Error(err))
		respondJSONError(w, "Error interno", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged in", zap.Int64("user_id", acc.ID))
	respondJSON(w, http.StatusOK, struct {
		User    UserResponse `json:"user"`
		Message string       `json:"message"`
	}{User: userResponse(acc), Message: "Login exitoso"})
}

// Logout clears the session cookie. Routed behind RequireSession.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.logger.Info("user logged out", zap.Int64("user_id", middleware.GetUserID(r.Context())))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout exitoso"})
}

// Profile returns the session user. Routed behind RequireSession.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accounts.ByID(middleware.GetUserID(r.Context()))
	if !ok {
		respondDetail(w, "No encontrado.", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, userResponse(acc))
}
