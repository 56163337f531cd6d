package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type OrderGetter interface {
	GetOrders(ctx context.Context) ([]*storage.Order, error)
}

type Response struct {
	Success bool             `json:"success"`
	Orders  []*storage.Order `json:"pedidos"`
	Total   int              `json:"total"`
}

// GetOrders lista os pedidos cadastrados, ordenados por data de entrega.
func GetOrders(log *slog.Logger, st OrderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.get.GetOrders"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orders, err := st.GetOrders(r.Context())
		if err != nil {
			log.Error("Falha ao buscar pedidos", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Success: true, Orders: orders, Total: len(orders)})
	}
}
