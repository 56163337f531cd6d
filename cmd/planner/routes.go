package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"

	getcalendar "github.com/johnnybahia/tetrisprogramacao/http-server/calendar/get"
	savecalendar "github.com/johnnybahia/tetrisprogramacao/http-server/calendar/save"
	upcalendar "github.com/johnnybahia/tetrisprogramacao/http-server/calendar/update"
	generate_excel "github.com/johnnybahia/tetrisprogramacao/http-server/generate-report/generate-excel"
	getmachines "github.com/johnnybahia/tetrisprogramacao/http-server/machines/get"
	applyopt "github.com/johnnybahia/tetrisprogramacao/http-server/optimization/apply"
	suggestopt "github.com/johnnybahia/tetrisprogramacao/http-server/optimization/suggest"
	getorders "github.com/johnnybahia/tetrisprogramacao/http-server/orders/get"
	saveorders "github.com/johnnybahia/tetrisprogramacao/http-server/orders/save"
	createplan "github.com/johnnybahia/tetrisprogramacao/http-server/planning/create"
	getplan "github.com/johnnybahia/tetrisprogramacao/http-server/planning/get"
	moveplan "github.com/johnnybahia/tetrisprogramacao/http-server/planning/move"
	saveplan "github.com/johnnybahia/tetrisprogramacao/http-server/planning/save"
	getproducts "github.com/johnnybahia/tetrisprogramacao/http-server/products/get"
	saveproducts "github.com/johnnybahia/tetrisprogramacao/http-server/products/save"
	"github.com/johnnybahia/tetrisprogramacao/internal/calendar"
	"github.com/johnnybahia/tetrisprogramacao/internal/config"
	"github.com/johnnybahia/tetrisprogramacao/internal/middleware/auth"
	generate_excel2 "github.com/johnnybahia/tetrisprogramacao/internal/service/generate-excel"
	"github.com/johnnybahia/tetrisprogramacao/internal/service/optimizer"
	"github.com/johnnybahia/tetrisprogramacao/internal/service/planning"
	"github.com/johnnybahia/tetrisprogramacao/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, cal *calendar.Calendar,
	engine *planning.Engine, opt *optimizer.Optimizer, genService *generate_excel2.GenerateExcelService) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"}, // frontend local
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Planejamento dinâmico
	router.Post("/api/planejamento/dinamico/criar", createplan.CreateDynamicPlan(log, storage, engine))
	router.Post("/api/planejamento/dinamico/mover", moveplan.MoveOrder(log, engine))
	router.Post("/api/planejamento/dinamico/salvar", saveplan.SavePlan(log, storage))
	router.Get("/api/planejamento/dinamico/listar", getplan.ListPlans(log, storage))
	router.Get("/api/planejamento/dinamico/carregar/{name}", getplan.LoadPlan(log, storage))
	router.Get("/api/planejamento/relatorio/excel/{name}", generate_excel.GenerateReportExcel(log, genService))

	// Otimização de máquinas
	router.Post("/api/otimizacao/sugerir-maquinas", suggestopt.SuggestMachines(log, storage, opt))
	router.Post("/api/otimizacao/aplicar-sugestoes", applyopt.ApplySuggestions(log, opt, storage))

	// Calendário de dias úteis
	router.Get("/api/calendario/summary", getcalendar.GetSummary(log, cal))
	router.Get("/api/calendario/feriados", getcalendar.GetHolidays(log, cal))
	router.Post("/api/calendario/feriados", savecalendar.AddHolidays(log, cal, storage))
	router.Delete("/api/calendario/feriados", savecalendar.RemoveHolidays(log, cal, storage))
	router.Post("/api/calendario/fins-de-semana/config", upcalendar.SetWeekendConfig(log, cal, storage))
	router.Post("/api/calendario/fins-de-semana/datas", upcalendar.SetWeekendDates(log, cal, storage))
	router.Get("/api/calendario/fins-de-semana/{year}", getcalendar.GetWeekendsYear(log, cal))
	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).
		Post("/api/calendario/limpar", upcalendar.ClearCalendar(log, cal, storage))

	// Catálogo
	router.Get("/api/maquinas", getmachines.GetMachines(log, storage))
	router.Get("/api/produtos/{machine}", getproducts.GetProductsByMachine(log, storage))
	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).
		Post("/api/produtos", saveproducts.SaveProduct(log, storage))
	router.Get("/api/pedidos", getorders.GetOrders(log, storage))
	router.Get("/api/pedidos-cadastrados", getorders.GetOrders(log, storage))
	router.Post("/api/pedidos", saveorders.SaveOrder(log, storage))

	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	router.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := storage.Ping(ctx); err != nil {
			log.Error("database unreachable", slog.String("error", err.Error()))
			dbStatus = "offline"
		}

		render.JSON(w, r, map[string]any{
			"status":    "ok",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	return router
}
