// Package httpapi exposes the user flows over HTTP. Handlers translate JSON
// requests into service calls and sentinel errors into status codes; they own
// no logic beyond that.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmarquez/usermirror/internal/common"
	"github.com/dmarquez/usermirror/internal/logging"
	"github.com/dmarquez/usermirror/internal/server/users"
)

// UserService is what the handlers need from the orchestrator.
type UserService interface {
	Register(ctx context.Context, email, password string) (*users.Registration, error)
	Confirm(ctx context.Context, email, code string) error
	Authenticate(ctx context.Context, email, password string) (string, bool, error)
	ListMirrored(ctx context.Context) ([]users.User, error)
	ListPool(ctx context.Context, limit int32) ([]string, error)
}

type Handler struct {
	users  UserService
	logger logging.Logger
}

func NewHandler(users UserService, logger logging.Logger) *Handler {
	return &Handler{users: users, logger: logger.With("component", "httpapi")}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type confirmUserRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type confirmUserResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	reg, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error(r.Context(), "registration failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, common.ErrDuplicateUser):
			writeError(w, http.StatusConflict, "user already exists")
		case errors.Is(err, common.ErrInvalidPassword), errors.Is(err, common.ErrInvalidParameter):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrMirrorPending):
			// the sign-up took effect; only the mirror is behind
			writeError(w, http.StatusInternalServerError, common.ErrMirrorPending.Error())
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, users.User{Email: reg.Email})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListMirrored(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "listing mirrored users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "listing users failed")
		return
	}

	if list == nil {
		list = []users.User{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) confirmUser(w http.ResponseWriter, r *http.Request) {
	var req confirmUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "email and code are required")
		return
	}

	if err := h.users.Confirm(r.Context(), req.Email, req.Code); err != nil {
		h.logger.Error(r.Context(), "confirmation failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, common.ErrCodeMismatch), errors.Is(err, common.ErrCodeExpired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "confirmation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, confirmUserResponse{
		Message: "User confirmed successfully",
		User:    req.Email,
	})
}

func (h *Handler) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, ok, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotAuthorized), errors.Is(err, common.ErrUserNotConfirmed):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			h.logger.Error(r.Context(), "authentication failed", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	if !ok {
		// the provider completed without issuing a token (further challenge)
		writeJSON(w, http.StatusAccepted, messageResponse{Message: "additional challenge required"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

func (h *Handler) listPoolUsers(w http.ResponseWriter, r *http.Request) {
	var limit int32
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = int32(n)
	}

	names, err := h.users.ListPool(r.Context(), limit)
	if err != nil {
		h.logger.Error(r.Context(), "listing pool users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "listing users failed")
		return
	}

	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}
