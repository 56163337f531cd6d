package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/johnnybahia/tetrisprogramacao/internal/storage/mysql"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context, planName string) ([]byte, error)
}

// GenerateReportExcel exporta um planejamento salvo como planilha xlsx.
func GenerateReportExcel(log *slog.Logger, svc ExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.generate-report.generate-excel.GenerateReportExcel"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		name := chi.URLParam(r, "name")
		if name == "" {
			http.Error(w, "Nome do planejamento é obrigatório", http.StatusBadRequest)
			return
		}

		data, err := svc.GenerateExcel(r.Context(), name)
		if err != nil {
			if errors.Is(err, mysql.ErrPlanNotFound) {
				http.Error(w, "Planejamento não encontrado", http.StatusNotFound)
				return
			}

			log.Error("Falha ao gerar planilha", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Planilha gerada", slog.String("plan", name), slog.Int("bytes", len(data)))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		w.Write(data)
	}
}
