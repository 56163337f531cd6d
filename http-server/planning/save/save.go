package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/service/planning"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type PlanStore interface {
	SavePlan(ctx context.Context, summary storage.PlanSummary, payload json.RawMessage) error
}

type Request struct {
	Name string         `json:"name"`
	Plan *planning.Plan `json:"plan"`
}

type Response struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

// SavePlan persiste um planejamento com nome para carregamento posterior.
func SavePlan(log *slog.Logger, store PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.save.SavePlan"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Plan == nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Nome do planejamento é obrigatório", http.StatusBadRequest)
			return
		}

		payload, err := json.Marshal(req.Plan)
		if err != nil {
			log.Error("Falha ao serializar planejamento", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		summary := storage.PlanSummary{
			Name:          req.Name,
			CreatedAt:     time.Now().Format(time.RFC3339),
			TotalOrders:   req.Plan.Summary.TotalOrders,
			TotalMachines: req.Plan.Summary.TotalMachines,
			TotalHours:    req.Plan.Summary.TotalHours,
		}

		if err := store.SavePlan(r.Context(), summary, payload); err != nil {
			log.Error("Falha ao salvar planejamento", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Planejamento salvo", slog.String("name", req.Name))

		render.JSON(w, r, Response{Success: true, Name: req.Name})
	}
}
