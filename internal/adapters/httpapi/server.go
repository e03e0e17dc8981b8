package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"

	"github.com/oakmount/accounts-api/internal/app/users"
	"github.com/oakmount/accounts-api/internal/apperror"
	"github.com/oakmount/accounts-api/internal/domain"
)

// Server is the HTTP adapter over the users service. Handlers decode the
// request, call the service, and hand any failure to WriteError; no handler
// writes an error response directly.
type Server struct {
	users *users.Service
	log   *zap.Logger
}

func NewServer(usersSvc *users.Service, log *zap.Logger) *Server {
	return &Server{users: usersSvc, log: log}
}

type registerRequest struct {
	DisplayName string              `json:"displayName"`
	Email       openapi_types.Email `json:"email"`
	Bio         *string             `json:"bio,omitempty"`
}

type updateMyProfileRequest struct {
	DisplayName nullable.Nullable[string] `json:"displayName"`
	Email       nullable.Nullable[string] `json:"email"`
	Bio         nullable.Nullable[string] `json:"bio"`
}

type userResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Bio         *string   `json:"bio,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteError(w, r, s.log, apperror.Unauthorized("missing subject"))
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, s.log, err)
		return
	}

	u, err := s.users.Register(r.Context(), sub, users.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       string(req.Email),
		Bio:         req.Bio,
	})
	if err != nil {
		WriteError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, userFromDomain(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := SubjectFromContext(r.Context()); !ok {
		WriteError(w, r, s.log, apperror.Unauthorized("missing subject"))
		return
	}

	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	us, err := s.users.ListUsers(r.Context(), includeInactive)
	if err != nil {
		WriteError(w, r, s.log, err)
		return
	}

	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, userFromDomain(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := SubjectFromContext(r.Context()); !ok {
		WriteError(w, r, s.log, apperror.Unauthorized("missing subject"))
		return
	}

	id := domain.UserID(chi.URLParam(r, "userID"))
	u, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		WriteError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(u))
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteError(w, r, s.log, apperror.Unauthorized("missing subject"))
		return
	}

	u, err := s.users.GetMyProfile(r.Context(), sub)
	if err != nil {
		WriteError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(u))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteError(w, r, s.log, apperror.Unauthorized("missing subject"))
		return
	}

	var req updateMyProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, s.log, err)
		return
	}

	u, err := s.users.UpdateMyProfile(r.Context(), sub, users.UpdateMyProfileInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Bio:         req.Bio,
	})
	if err != nil {
		WriteError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(u))
}

// decodeJSON decodes a request body, classifying any failure as a 400.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperror.BadRequest("missing request body")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.BadRequest("missing request body")
		}
		return apperror.BadRequest("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func userFromDomain(u domain.User) userResponse {
	return userResponse{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Bio:         u.Bio,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
