package get

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
)

type HolidaysResponse struct {
	Success  bool     `json:"success"`
	Holidays []string `json:"feriados"`
	Total    int      `json:"total"`
}

type WeekendsResponse struct {
	Success   bool                  `json:"success"`
	Year      int                   `json:"ano"`
	Saturdays []calendar.WeekendDay `json:"sabados"`
	Sundays   []calendar.WeekendDay `json:"domingos"`
}

// GetSummary devolve o estado geral do calendário.
func GetSummary(log *slog.Logger, cal *calendar.Calendar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, cal.Summary())
	}
}

// GetHolidays lista os feriados cadastrados, ordenados por data.
func GetHolidays(log *slog.Logger, cal *calendar.Calendar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holidays := cal.Holidays()

		render.JSON(w, r, HolidaysResponse{
			Success:  true,
			Holidays: holidays,
			Total:    len(holidays),
		})
	}
}

// GetWeekendsYear conta sábados e domingos de um ano.
func GetWeekendsYear(log *slog.Logger, cal *calendar.Calendar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.calendar.get.GetWeekendsYear"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil || year < 1 {
			log.Info("Ano inválido", slog.String("year", chi.URLParam(r, "year")))
			http.Error(w, "Ano inválido", http.StatusBadRequest)
			return
		}

		saturdays, sundays := cal.WeekendsInYear(year)

		render.JSON(w, r, WeekendsResponse{
			Success:   true,
			Year:      year,
			Saturdays: saturdays,
			Sundays:   sundays,
		})
	}
}
