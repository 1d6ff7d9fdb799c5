package endpoints

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// TokenResponse is returned by signup and login
type TokenResponse struct {
	Token string `json:"token"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterAuthEndpoints registers signup and login
func RegisterAuthEndpoints(s *server.Server) {
	authRouter := s.Router.PathPrefix("/api/auth").Subrouter()

	// POST /api/auth/signup - Create an account and return a token
	authRouter.HandleFunc("/signup", handleSignup(s.Authenticator)).Methods("POST")

	// POST /api/auth/login - Exchange email and password for a token
	authRouter.HandleFunc("/login", handleLogin(s.Authenticator)).Methods("POST")
}

func handleSignup(auth *authenticator.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		event := audit.SignupEvent{Email: req.Email, Role: req.Role, ClientIP: clientIP(r)}

		session, err := auth.Signup(authenticator.SignupInput{
			Email:    req.Email,
			Password: req.Password,
			Role:     model.RoleName(req.Role),
		})
		if err != nil {
			code, message, expected := signupFailure(err)
			if !expected {
				slog.Error("signup failed", "email", req.Email, "error", err)
			}
			event.ErrorMessage = message
			audit.Log(event)
			respondWithError(w, code, message)
			return
		}

		event.UserID = session.User.ID
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, TokenResponse{Token: session.Token})
	}
}

// signupFailure maps a signup error to a status and message. Errors that
// are not validation or conflict errors are reported as-is.
func signupFailure(err error) (code int, message string, expected bool) {
	switch {
	case errors.Is(err, authenticator.ErrMissingSignupFields):
		return http.StatusBadRequest, authenticator.ErrMissingSignupFields.Error(), true
	case errors.Is(err, authenticator.ErrInvalidRole):
		return http.StatusBadRequest, authenticator.ErrInvalidRole.Error(), true
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict, "A user with this email already exists", true
	case errors.Is(err, store.ErrRoleExists):
		return http.StatusConflict, "User role already exists", true
	default:
		return http.StatusBadRequest, err.Error(), false
	}
}

func handleLogin(auth *authenticator.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		event := audit.LoginEvent{Email: req.Email, ClientIP: clientIP(r)}

		session, err := auth.Login(req.Email, req.Password)
		if err != nil {
			var code int
			var message string
			switch {
			case errors.Is(err, authenticator.ErrMissingLoginFields):
				code, message = http.StatusBadRequest, err.Error()
			case errors.Is(err, authenticator.ErrInvalidCredentials):
				code, message = http.StatusUnauthorized, err.Error()
			case errors.Is(err, authenticator.ErrRoleLookup):
				slog.Error("login role lookup failed", "email", req.Email, "error", err)
				code, message = http.StatusInternalServerError, authenticator.ErrRoleLookup.Error()
			default:
				slog.Error("login failed", "email", req.Email, "error", err)
				code, message = http.StatusUnauthorized, "An error occurred during login. Please try again."
			}
			event.ErrorMessage = message
			audit.Log(event)
			respondWithError(w, code, message)
			return
		}

		event.UserID = session.User.ID
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, TokenResponse{Token: session.Token})
	}
}
