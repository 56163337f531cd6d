package suggest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/service/optimizer"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type OrderCatalog interface {
	GetOrders(ctx context.Context) ([]*storage.Order, error)
}

type Request struct {
	Orders    []*storage.Order `json:"pedidos"`
	StartDate string           `json:"start_date"`
}

type Response struct {
	Success bool `json:"success"`
	*optimizer.Result
}

// SuggestMachines avalia máquinas alternativas para cada pedido e
// devolve sugestões de troca com tempo economizado.
func SuggestMachines(log *slog.Logger, catalog OrderCatalog, opt *optimizer.Optimizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.optimization.suggest.SuggestMachines"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		startDate := time.Now().Truncate(24 * time.Hour)
		if req.StartDate != "" {
			parsed, err := calendar.ParseDate(req.StartDate)
			if err != nil {
				http.Error(w, "Data de início inválida", http.StatusBadRequest)
				return
			}
			startDate = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orders := req.Orders
		if len(orders) == 0 {
			var err error
			orders, err = catalog.GetOrders(ctx)
			if err != nil {
				log.Error("Falha ao buscar pedidos", slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
		}

		result, err := opt.Suggest(ctx, orders, startDate)
		if err != nil {
			log.Error("Falha ao gerar sugestões", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Sugestões geradas",
			slog.Int("orders", len(orders)),
			slog.Int("suggestions", len(result.Suggestions)),
		)

		render.JSON(w, r, Response{Success: true, Result: result})
	}
}
