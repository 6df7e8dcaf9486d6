package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlekseyZapadovnikov/org-chart/conf"
	"github.com/AlekseyZapadovnikov/org-chart/internal/repository"
	"github.com/AlekseyZapadovnikov/org-chart/internal/service"
	"github.com/AlekseyZapadovnikov/org-chart/internal/web"
)

// employeeBackend объединяет операции источника данных, нужные сервису и HTTP-слою.
type employeeBackend interface {
	service.EmployeeSource
	web.EmployeeStore
}

// main конфигурирует сервис, поднимает источник данных, оргструктуру и HTTP-сервер, а затем управляет их жизненным циклом.
func main() {
	// Берём путь до конфигурации из окружения либо используем значение по умолчанию.
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./conf/config.json"
	}

	// Загружаем конфигурацию.
	config := conf.MustLoad(cfgPath)
	slog.Info("Configuration loaded successfully", "config_path", cfgPath, "source", config.Chart.Source)

	ctx := context.Background()
	backend, closeBackend, err := newBackend(ctx, config)
	if err != nil {
		slog.Error("Employee source initialization failed", "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	// Первая загрузка может не удаться: сервер всё равно стартует, а /chart/reload повторит попытку.
	feed := service.NewNotificationFeed(config.Chart.NotificationLimit)
	chart := service.NewChartManager(backend, feed)
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := chart.Load(loadCtx); err != nil {
		slog.Warn("Initial chart load failed", "error", err)
	}
	cancel()

	// Поднимаем HTTP-сервер.
	server := web.New(config.HTTPServConf, backend, chart, feed)
	slog.Info("HTTP server created successfully", "address", server.Address)

	// Запускаем сервер в отдельной горутине.
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Org chart service started successfully", "address", server.Address)

	// Ожидаем сигнал остановки для плавного завершения работы.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Выполняем корректное завершение сервера с тайм-аутом.
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

// newBackend выбирает источник сотрудников по конфигурации.
func newBackend(ctx context.Context, config *conf.Config) (employeeBackend, func(), error) {
	switch config.Chart.Source {
	case conf.SourcePostgres:
		slog.Info("Database configuration", "host", config.DBConf.Host, "port", config.DBConf.Port, "user", config.DBConf.User, "database", config.DBConf.Name)
		storage, err := repository.NewStorage(ctx, &config.DBConf)
		if err != nil {
			return nil, nil, err
		}
		if err := storage.EnsureSchema(ctx); err != nil {
			storage.Close()
			return nil, nil, err
		}
		slog.Info("Database storage initialized successfully")
		return storage, storage.Close, nil
	default:
		employees := repository.DemoEmployees()
		if config.Chart.SeedPath != "" {
			seed, err := repository.LoadSeedFile(config.Chart.SeedPath)
			if err != nil {
				return nil, nil, err
			}
			employees = seed
		}
		slog.Info("Memory storage initialized", "employees", len(employees), "persist", config.Chart.Persist)
		return repository.NewMemoryStorage(employees, repository.WithPersist(config.Chart.Persist)), func() {}, nil
	}
}

var (
	_ employeeBackend = (*repository.Storage)(nil)
	_ employeeBackend = (*repository.MemoryStorage)(nil)
)
