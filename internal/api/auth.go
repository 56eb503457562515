package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/dishly/restaurant-api/internal/apperr"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin chef"`
}

type sessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	user, err := h.store.FindUserByLogin(r.Context(), req.Username, req.Role)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			h.fail(w, apperr.New(apperr.Auth, "invalid username or password"))
			return
		}
		h.fail(w, err)
		return
	}

	if !user.Status {
		h.fail(w, apperr.New(apperr.Forbidden, "account is disabled"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.fail(w, apperr.New(apperr.Auth, "invalid username or password"))
		return
	}

	if err := h.store.TouchLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to update last login")
	}

	h.logger.WithFields(logrus.Fields{
		"username": user.Username,
		"role":     user.Role,
	}).Info("User logged in")

	h.respondWithData(w, http.StatusOK, map[string]interface{}{
		"user": sessionUser{ID: user.ID, Username: user.Username, Role: user.Role},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.respondWithMessage(w, "logged out")
}
