package api

import (
	"net/http"
	"time"

	"github.com/dishly/restaurant-api/internal/apperr"
	"github.com/dishly/restaurant-api/pkg/models"
)

const dateLayout = "2006-01-02"

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	var from, to time.Time
	if startDate != "" && endDate != "" {
		start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
		if err != nil {
			h.fail(w, apperr.Newf(apperr.Validation, "invalid startDate %s", startDate))
			return
		}
		end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
		if err != nil {
			h.fail(w, apperr.Newf(apperr.Validation, "invalid endDate %s", endDate))
			return
		}
		// Inclusive calendar days: start of the first day through
		// 23:59:59.999 of the last.
		from = start
		to = end.Add(24*time.Hour - time.Millisecond)
	}

	orders, err := h.store.ListOrdersBetween(r.Context(), from, to)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.respondWithData(w, http.StatusOK, map[string]interface{}{
		"dishStats": aggregateDishSales(orders),
	})
}

// aggregateDishSales sums ordered quantities per dish. Lines whose dish no
// longer exists are skipped; the rest of the order still counts.
func aggregateDishSales(orders []*models.Order) map[string]models.DishStat {
	stats := make(map[string]models.DishStat)
	for _, order := range orders {
		for _, item := range order.Items {
			if item.Dish == nil {
				continue
			}
			stat := stats[item.Dish.ID]
			stat.Name = item.Dish.Name
			stat.Quantity += item.Quantity
			stats[item.Dish.ID] = stat
		}
	}
	return stats
}
