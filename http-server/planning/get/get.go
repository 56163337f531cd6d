package get

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage/mysql"
)

type PlanStore interface {
	ListPlans(ctx context.Context) ([]*storage.PlanSummary, error)
	LoadPlan(ctx context.Context, name string) (json.RawMessage, error)
}

type ListResponse struct {
	Success bool                   `json:"success"`
	Plans   []*storage.PlanSummary `json:"planejamentos"`
}

type LoadResponse struct {
	Success bool            `json:"success"`
	Plan    json.RawMessage `json:"plan"`
}

// ListPlans devolve os resumos dos planejamentos salvos.
func ListPlans(log *slog.Logger, store PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.get.ListPlans"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		plans, err := store.ListPlans(r.Context())
		if err != nil {
			log.Error("Falha ao listar planejamentos", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ListResponse{Success: true, Plans: plans})
	}
}

// LoadPlan carrega um planejamento salvo pelo nome.
func LoadPlan(log *slog.Logger, store PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.get.LoadPlan"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		name := chi.URLParam(r, "name")
		if name == "" {
			http.Error(w, "Nome do planejamento é obrigatório", http.StatusBadRequest)
			return
		}

		payload, err := store.LoadPlan(r.Context(), name)
		if err != nil {
			if errors.Is(err, mysql.ErrPlanNotFound) {
				http.Error(w, "Planejamento não encontrado", http.StatusNotFound)
				return
			}

			log.Error("Falha ao carregar planejamento", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, LoadResponse{Success: true, Plan: payload})
	}
}
