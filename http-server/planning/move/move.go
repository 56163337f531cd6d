package move

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/service/planning"
)

type Request struct {
	Plan         *planning.Plan `json:"plan"`
	OrderID      string         `json:"order_id"`
	FromPosition int            `json:"from_position"`
	ToPosition   int            `json:"to_position"`
	Machine      string         `json:"machine"`
}

type Response struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Plan    *planning.Plan `json:"plan,omitempty"`
}

// MoveOrder muda a posição de um pedido na fila da máquina e
// recalcula as datas da fila inteira.
func MoveOrder(log *slog.Logger, engine *planning.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.move.MoveOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Plan == nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		err := engine.Move(req.Plan, req.OrderID, req.FromPosition, req.ToPosition, req.Machine)
		if err != nil {
			var invalid *planning.InvalidMoveError
			if errors.As(err, &invalid) {
				log.Info("Movimento rejeitado",
					slog.String("order_id", req.OrderID),
					slog.String("reason", invalid.Reason),
				)
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Success: false, Error: invalid.Reason})
				return
			}

			log.Error("Falha ao mover pedido", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Success: true, Plan: req.Plan})
	}
}
