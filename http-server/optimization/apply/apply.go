package apply

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/service/optimizer"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type OrderUpdater interface {
	UpdateOrderMachine(ctx context.Context, o *storage.Order) error
}

type Request struct {
	Orders      []*storage.Order        `json:"pedidos"`
	Suggestions []*optimizer.Suggestion `json:"suggestions"`
	Persist     bool                    `json:"persist"`
}

type Response struct {
	Success bool             `json:"success"`
	Orders  []*storage.Order `json:"pedidos"`
	Changed int              `json:"alterados"`
}

// ApplySuggestions aplica as trocas de máquina sugeridas aos pedidos.
// Com persist=true as trocas também são gravadas no catálogo.
func ApplySuggestions(log *slog.Logger, opt *optimizer.Optimizer, store OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.optimization.apply.ApplySuggestions"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		updated, changed, err := opt.ApplySuggestions(r.Context(), req.Orders, req.Suggestions)
		if err != nil {
			log.Error("Falha ao aplicar sugestões", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if req.Persist && changed > 0 {
			original := make(map[string]string, len(req.Orders))
			for _, o := range req.Orders {
				original[o.ID] = o.Machine
			}

			for _, o := range updated {
				if o.ID == "" || original[o.ID] == o.Machine {
					continue
				}
				if err := store.UpdateOrderMachine(r.Context(), o); err != nil {
					log.Error("Falha ao gravar troca de máquina",
						slog.String("order_id", o.ID),
						slog.String("error", err.Error()),
					)
					http.Error(w, "Internal error", http.StatusInternalServerError)
					return
				}
			}
		}

		log.Info("Sugestões aplicadas", slog.Int("changed", changed))

		render.JSON(w, r, Response{Success: true, Orders: updated, Changed: changed})
	}
}
