package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type MachineGetter interface {
	GetMachines(ctx context.Context) ([]*storage.Machine, error)
}

type Response struct {
	Success  bool               `json:"success"`
	Machines []*storage.Machine `json:"maquinas"`
}

// GetMachines lista o parque de máquinas com a disponibilidade diária.
func GetMachines(log *slog.Logger, st MachineGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.machines.get.GetMachines"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		machines, err := st.GetMachines(r.Context())
		if err != nil {
			log.Error("Falha ao buscar máquinas", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Success: true, Machines: machines})
	}
}
