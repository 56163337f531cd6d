package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
)

type CalendarStore interface {
	SaveCalendarState(ctx context.Context, state calendar.State) error
}

type Request struct {
	Dates []string `json:"dates"`
}

type AddResponse struct {
	Success bool `json:"success"`
	calendar.AddResult
}

type RemoveResponse struct {
	Success bool `json:"success"`
	calendar.RemoveResult
}

// AddHolidays cadastra feriados em lote e persiste o calendário.
func AddHolidays(log *slog.Logger, cal *calendar.Calendar, store CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.calendar.save.AddHolidays"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		result := cal.AddHolidays(req.Dates)

		if err := store.SaveCalendarState(r.Context(), cal.State()); err != nil {
			log.Error("Falha ao persistir calendário", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Feriados adicionados",
			slog.Int("added", len(result.Added)),
			slog.Int("invalid", len(result.Invalid)),
		)

		render.JSON(w, r, AddResponse{Success: true, AddResult: result})
	}
}

// RemoveHolidays remove feriados em lote e persiste o calendário.
func RemoveHolidays(log *slog.Logger, cal *calendar.Calendar, store CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.calendar.save.RemoveHolidays"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		result := cal.RemoveHolidays(req.Dates)

		if err := store.SaveCalendarState(r.Context(), cal.State()); err != nil {
			log.Error("Falha ao persistir calendário", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, RemoveResponse{Success: true, RemoveResult: result})
	}
}
