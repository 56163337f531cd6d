package update

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

type WeekendConfigRequest struct {
	WorkSaturday bool `json:"work_saturday"`
	WorkSunday   bool `json:"work_sunday"`
}

type WeekendDatesRequest struct {
	Saturdays []string `json:"saturdays"`
	Sundays   []string `json:"sundays"`
}

type Response struct {
	Success bool     `json:"success"`
	Applied []string `json:"applied,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// SetWeekendConfig ajusta o padrão de trabalho em fins de semana.
func SetWeekendConfig(log *slog.Logger, cal *calendar.Calendar, store CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.calendar.update.SetWeekendConfig"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req WeekendConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		cal.SetWeekendDefaults(req.WorkSaturday, req.WorkSunday)

		if err := store.SaveCalendarState(r.Context(), cal.State()); err != nil {
			log.Error("Falha ao persistir calendário", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Padrão de fim de semana atualizado",
			slog.Bool("work_saturday", req.WorkSaturday),
			slog.Bool("work_sunday", req.WorkSunday),
		)

		render.JSON(w, r, Response{Success: true})
	}
}

// SetWeekendDates substitui as datas de fim de semana trabalhadas.
func SetWeekendDates(log *slog.Logger, cal *calendar.Calendar, store CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.calendar.update.SetWeekendDates"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req WeekendDatesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		result := cal.SetWeekendOverrides(req.Saturdays, req.Sundays)

		if err := store.SaveCalendarState(r.Context(), cal.State()); err != nil {
			log.Error("Falha ao persistir calendário", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Success: true, Applied: result.Added, Invalid: result.Invalid})
	}
}

// ClearCalendar apaga feriados e configuração de fins de semana.
func ClearCalendar(log *slog.Logger, cal *calendar.Calendar, store CalendarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.calendar.update.ClearCalendar"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		cal.Clear()

		if err := store.SaveCalendarState(r.Context(), cal.State()); err != nil {
			log.Error("Falha ao persistir calendário", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Calendário limpo")

		render.JSON(w, r, Response{Success: true})
	}
}
