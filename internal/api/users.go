package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/dishly/restaurant-api/pkg/models"
)

const bcryptCost = 12

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin chef"`
	Status   *bool  `json:"status"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=2,max=20"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin chef"`
	Status   *bool   `json:"status"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	h.respondWithData(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.fail(w, err)
		return
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hash),
		Role:     req.Role,
		Status:   true,
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User created")

	h.respondWithData(w, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	user, err := h.store.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Password != nil {
		// A changed password is always stored re-hashed.
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			h.fail(w, err)
			return
		}
		user.Password = string(hash)
	}

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		h.fail(w, err)
		return
	}
	h.respondWithData(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	h.respondWithMessage(w, "user deleted")
}
