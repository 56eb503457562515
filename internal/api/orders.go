package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/internal/events"
	"github.com/dishly/restaurant-api/pkg/models"
)

type orderLineRequest struct {
	Dish     string  `json:"dish" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gte=1"`
	Price    float64 `json:"price"`
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items" validate:"required,min=1,dive"`
	User  string             `json:"user"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type completeItemRequest struct {
	CompletedQuantity int `json:"completedQuantity"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	// Every line is validated against the live menu: the dish must exist
	// and the client-supplied price must equal the stored one. The total
	// is computed here and never trusted from the client.
	var totalAmount float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		dish, err := h.store.GetDish(r.Context(), line.Dish)
		if err != nil {
			if apperr.KindOf(err) == apperr.NotFound {
				h.fail(w, apperr.Newf(apperr.Validation, "dish %s does not exist", line.Dish))
				return
			}
			h.fail(w, err)
			return
		}
		if dish.Price != line.Price {
			h.fail(w, apperr.Newf(apperr.Validation, "price mismatch for dish %s", dish.Name))
			return
		}
		totalAmount += dish.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			DishID:   dish.ID,
			Quantity: line.Quantity,
			Price:    dish.Price,
		})
	}

	order := &models.Order{
		Items:       items,
		TotalAmount: totalAmount,
		Status:      models.StatusPending,
	}

	// Anonymous ordering is allowed; a user reference is attached only
	// when it resolves to a known account.
	if req.User != "" {
		if _, err := h.store.GetUser(r.Context(), req.User); err == nil {
			order.UserID = req.User
		}
	}

	if err := h.store.CreateOrder(r.Context(), order); err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"items_count":  len(order.Items),
	}).Info("Order created")

	h.publishOrderEvent(events.OrderCreatedTopic, order)
	if h.hub != nil {
		h.hub.Broadcast("order_created", order)
	}

	h.respondWithData(w, http.StatusCreated, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	// Orders with no lines or with a line whose dish no longer resolves
	// are hidden from the board.
	valid := make([]*models.Order, 0, len(orders))
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		resolved := true
		for _, item := range order.Items {
			if item.Dish == nil {
				resolved = false
				break
			}
		}
		if resolved {
			valid = append(valid, order)
		}
	}

	h.respondWithData(w, http.StatusOK, valid)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if !models.ValidStatus(req.Status) {
		h.fail(w, apperr.Newf(apperr.Validation, "invalid status %s", req.Status))
		return
	}

	order, err := h.store.UpdateOrderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("Order status updated")

	if order.Status == models.StatusCompleted {
		h.publishOrderEvent(events.OrderCompletedTopic, order)
	}
	if h.hub != nil {
		h.hub.Broadcast("order_status_changed", order)
	}

	h.respondWithData(w, http.StatusOK, order)
}

func (h *Handler) CompleteOrderItem(w http.ResponseWriter, r *http.Request) {
	var req completeItemRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	vars := mux.Vars(r)
	order, err := h.store.CompleteOrderItem(r.Context(), vars["id"], vars["dishId"], req.CompletedQuantity)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"dish_id":  vars["dishId"],
		"delta":    req.CompletedQuantity,
		"status":   order.Status,
	}).Info("Order item completion updated")

	if order.Status == models.StatusCompleted && req.CompletedQuantity > 0 {
		h.publishOrderEvent(events.OrderCompletedTopic, order)
	}
	if h.hub != nil {
		h.hub.Broadcast("item_completed", order)
	}

	h.respondWithData(w, http.StatusOK, order)
}

// publishOrderEvent is best-effort: a broker outage must never fail the
// request, so errors are logged inside the publisher and dropped here.
func (h *Handler) publishOrderEvent(topic string, order *models.Order) {
	event := events.OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
	switch topic {
	case events.OrderCreatedTopic:
		_ = h.publisher.PublishOrderCreated(event)
	case events.OrderCompletedTopic:
		_ = h.publisher.PublishOrderCompleted(event)
	}
}
