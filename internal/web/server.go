package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlekseyZapadovnikov/org-chart/conf"
	"github.com/AlekseyZapadovnikov/org-chart/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestValidator = validator.New()

type Server struct {
	Address string
	server  *http.Server

	router        *chi.Mux
	store         EmployeeStore
	chart         ChartService
	notifications NotificationLister
}

// New конструирует HTTP-сервер на базе chi и регистрирует все маршруты.
func New(cfg conf.HttpServConf, store EmployeeStore, chart ChartService, notifications NotificationLister) *Server {
	servAdres := cfg.GetAddress()
	mux := chi.NewMux()
	srv := &Server{
		Address:       servAdres,
		router:        mux,
		store:         store,
		chart:         chart,
		notifications: notifications,
	}
	srv.server = &http.Server{
		Addr:              servAdres,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.setupRoutes()

	return srv
}

// Start запускает HTTP-сервер и блокирует поток до остановки.
func (s *Server) Start() error {
	slog.Info("server starting", "address", s.server.Addr)
	return s.server.ListenAndServe()
}

// setupRoutes настраивает middleware и HTTP-маршруты.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(instrument)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Handle("/metrics", promhttp.Handler())

	// Внешний API сотрудников.
	s.router.Route("/api/employees", func(r chi.Router) {
		r.Get("/", s.handleListEmployees)
		r.Patch("/{id}", s.handlePatchEmployee)
	})

	// Оргструктура.
	s.router.Route("/chart", func(r chi.Router) {
		r.Get("/", s.handleChartView)
		r.Post("/team", s.handleSelectTeam)
		r.Post("/move", s.handleMove)
		r.Post("/reload", s.handleReload)
		r.Get("/last-move", s.handleLastMove)
		r.Get("/teams", s.handleTeams)
		r.Get("/employees", s.handleSidebarList)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/notifications", s.handleNotifications)
	})
}

// Shutdown останавливает HTTP-сервер с таймаутом на корректное завершение.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// ---------- утилитарные функции ----------

// writeJSON сериализует структуру в JSON-ответ с нужным статусом.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// decodeJSON читает тело запроса и проверяет его по тегам validate.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return requestValidator.Struct(v)
}

// mapDomainError переводит доменные ошибки в HTTP-статусы и коды ответа.
func mapDomainError(err error) (status int, code ErrorResponseErrorCode, msg string) {
	if err == nil {
		return http.StatusOK, "", ""
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, NOTFOUND, err.Error()
	case errors.Is(err, domain.ErrCycle):
		return http.StatusConflict, CYCLEDETECTED, err.Error()
	case errors.Is(err, domain.ErrInvalidTeam):
		return http.StatusBadRequest, INVALIDTEAM, err.Error()
	case errors.Is(err, domain.ErrPersistFailed):
		return http.StatusBadGateway, PERSISTFAILED, err.Error()
	case errors.Is(err, domain.ErrLoadFailed):
		return http.StatusServiceUnavailable, LOADFAILED, err.Error()
	default:
		slog.Warn("unmapped domain error", "err", err.Error())
		return http.StatusInternalServerError, INTERNALERROR, err.Error()
	}
}
