package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/pkg/models"
)

type createDishRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=20"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description string   `json:"description"`
	Image       string   `json:"image" validate:"required"`
	Status      *bool    `json:"status"`
}

type updateDishRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=20"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Status      *bool    `json:"status"`
}

func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.store.ListDishes(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if dishes == nil {
		dishes = []*models.Dish{}
	}
	h.respondWithData(w, http.StatusOK, dishes)
}

func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.store.GetDish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondWithData(w, http.StatusOK, dish)
}

func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req createDishRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	dish := &models.Dish{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Image:       req.Image,
		Status:      true,
	}
	if req.Status != nil {
		dish.Status = *req.Status
	}

	if err := h.store.CreateDish(r.Context(), dish); err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"dish_id": dish.ID,
		"name":    dish.Name,
	}).Info("Dish created")

	h.respondWithData(w, http.StatusCreated, dish)
}

func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	var req updateDishRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	dish, err := h.store.GetDish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}

	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Price != nil {
		dish.Price = *req.Price
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Image != nil {
		dish.Image = *req.Image
	}
	if req.Status != nil {
		dish.Status = *req.Status
	}

	if err := h.store.UpdateDish(r.Context(), dish); err != nil {
		h.fail(w, err)
		return
	}
	h.respondWithData(w, http.StatusOK, dish)
}

func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDish(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	h.respondWithMessage(w, "dish deleted")
}
