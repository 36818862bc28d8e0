package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/technotes/server/internal/service"
)

// Handler exposes the user record endpoints
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register wires the user routes onto the router. PATCH and DELETE are also
// registered without an id so that requests missing one still reach the
// validation path instead of the catch-all 404.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users", h.UpdateUser).Methods(http.MethodPatch)
	r.HandleFunc("/users/{id}", h.UpdateUser).Methods(http.MethodPatch)
	r.HandleFunc("/users", h.DeleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)
}

type createUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type updateUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
	// Pointer so that a missing or non-boolean value is rejected rather
	// than coerced.
	Active *bool `json:"active"`
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if errors.Is(err, service.ErrNoUsers) {
		respondMessage(w, http.StatusNotFound, "No users found")
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req.Username, req.Password, req.Roles)
	switch {
	case errors.Is(err, service.ErrAllFieldsRequired):
		respondMessage(w, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, service.ErrDuplicateUsername):
		respondMessage(w, http.StatusConflict, "Username already exists")
	case err != nil:
		h.internalError(w, err)
	default:
		respondMessage(w, http.StatusCreated, fmt.Sprintf("User %s created", user.Username))
	}
}

// UpdateUser handles PATCH /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, req.Username, req.Password, req.Roles, req.Active)
	switch {
	case errors.Is(err, service.ErrAllFieldsRequired):
		respondMessage(w, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, service.ErrUserNotFound):
		// Folded into 400 rather than 404, matching the published contract.
		respondMessage(w, http.StatusBadRequest, "User not found")
	case errors.Is(err, service.ErrDuplicateUsername):
		respondMessage(w, http.StatusConflict, "Username already exists")
	case err != nil:
		h.internalError(w, err)
	default:
		respondMessage(w, http.StatusOK, fmt.Sprintf("User %s updated", user.Username))
	}
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.svc.DeleteUser(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrUserIDRequired):
		respondMessage(w, http.StatusBadRequest, "User ID is required")
	case errors.Is(err, service.ErrUserHasNotes):
		respondMessage(w, http.StatusBadRequest, "User has notes, cannot delete")
	case errors.Is(err, service.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.internalError(w, err)
	default:
		reply := fmt.Sprintf("Username %s with ID %s deleted", user.Username, user.ID.Hex())
		respondMessage(w, http.StatusOK, reply)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.log.Errorf("request failed: %v", err)
	respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}
