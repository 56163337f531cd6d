package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type ProductGetter interface {
	GetProductsByMachine(ctx context.Context, machine string) ([]*storage.Product, error)
}

type Response struct {
	Success  bool               `json:"success"`
	Machine  string             `json:"maquina"`
	Products []*storage.Product `json:"produtos"`
}

// GetProductsByMachine lista as referências que a máquina produz.
func GetProductsByMachine(log *slog.Logger, st ProductGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.get.GetProductsByMachine"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		machine := chi.URLParam(r, "machine")
		if machine == "" {
			http.Error(w, "Máquina é obrigatória", http.StatusBadRequest)
			return
		}

		products, err := st.GetProductsByMachine(r.Context(), machine)
		if err != nil {
			log.Error("Falha ao buscar produtos",
				slog.String("machine", machine),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Success: true, Machine: machine, Products: products})
	}
}
