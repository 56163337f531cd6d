package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type OrderSaver interface {
	SaveOrder(ctx context.Context, o *storage.Order) (string, error)
}

type Response struct {
	Success bool     `json:"success"`
	ID      string   `json:"id,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// SaveOrder cadastra um pedido depois de validar os campos mínimos.
func SaveOrder(log *slog.Logger, st OrderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.save.SaveOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var o storage.Order
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		if errs := validateOrder(&o); len(errs) > 0 {
			log.Info("Pedido rejeitado", slog.Int("errors", len(errs)))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{Success: false, Errors: errs})
			return
		}

		id, err := st.SaveOrder(r.Context(), &o)
		if err != nil {
			log.Error("Falha ao salvar pedido", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Pedido cadastrado", slog.String("id", id), slog.String("cliente", o.Client))

		render.JSON(w, r, Response{Success: true, ID: id})
	}
}

func validateOrder(o *storage.Order) []string {
	var errs []string

	if o.Client == "" {
		errs = append(errs, "cliente é obrigatório")
	}
	if o.Machine == "" {
		errs = append(errs, "maquina é obrigatória")
	}
	if o.ProductRef == "" {
		errs = append(errs, "produto é obrigatório")
	}
	if o.Quantity <= 0 {
		errs = append(errs, "quantidade deve ser maior que zero")
	}
	if o.Bocas < 1 {
		errs = append(errs, "bocas deve ser no mínimo 1")
	}
	if _, err := calendar.ParseDate(o.DueDate); err != nil {
		errs = append(errs, "data_entrega inválida, use DD/MM/YYYY")
	}

	return errs
}
