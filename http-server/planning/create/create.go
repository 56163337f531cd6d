package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/service/planning"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type PlanningCatalog interface {
	GetOrders(ctx context.Context) ([]*storage.Order, error)
	GetMachines(ctx context.Context) ([]*storage.Machine, error)
}

type Request struct {
	Orders    []*storage.Order `json:"pedidos"`
	StartDate string           `json:"start_date"`
}

type Response struct {
	Success bool `json:"success"`
	*planning.Plan
}

// CreateDynamicPlan gera o planejamento dinâmico. Sem pedidos no corpo,
// usa os pedidos cadastrados no catálogo.
func CreateDynamicPlan(log *slog.Logger, catalog PlanningCatalog, engine *planning.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.create.CreateDynamicPlan"

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
				log.Error("Data de início inválida", slog.String("start_date", req.StartDate))
				http.Error(w, "Data de início inválida", http.StatusBadRequest)
				return
			}
			startDate = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			orders   = req.Orders
			machines []*storage.Machine
		)

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			machines, err = catalog.GetMachines(gCtx)
			return err
		})
		if len(orders) == 0 {
			g.Go(func() error {
				var err error
				orders, err = catalog.GetOrders(gCtx)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			log.Error("Falha ao buscar dados do catálogo", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		plan := engine.Generate(orders, machines, startDate)

		render.JSON(w, r, Response{Success: true, Plan: plan})
	}
}
