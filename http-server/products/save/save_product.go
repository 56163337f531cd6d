package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage"
)

type ProductSaver interface {
	SaveProduct(ctx context.Context, p *storage.Product) error
}

type Response struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// SaveProduct cadastra ou atualiza uma referência de produto da máquina.
func SaveProduct(log *slog.Logger, st ProductSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.products.save.SaveProduct"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var p storage.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		if errs := validateProduct(&p); len(errs) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{Success: false, Errors: errs})
			return
		}

		if err := st.SaveProduct(r.Context(), &p); err != nil {
			log.Error("Falha ao salvar produto", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Produto cadastrado",
			slog.String("machine", p.Machine),
			slog.String("reference", p.Reference),
		)

		render.JSON(w, r, Response{Success: true})
	}
}

func validateProduct(p *storage.Product) []string {
	var errs []string

	if p.Machine == "" {
		errs = append(errs, "maquina é obrigatória")
	}
	if p.Reference == "" && p.MachineRef == "" {
		errs = append(errs, "referencia ou referencia_maquina é obrigatória")
	}
	if p.ProductionTime < 0 || p.AssemblyTime < 0 {
		errs = append(errs, "tempos não podem ser negativos")
	}

	return errs
}
