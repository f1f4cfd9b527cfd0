package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
	"github.com/vladislavdragonenkov/grocery/internal/health"
	"github.com/vladislavdragonenkov/grocery/internal/metrics"
	"github.com/vladislavdragonenkov/grocery/internal/service/httpapi"
	"github.com/vladislavdragonenkov/grocery/internal/version"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// NewRouter собирает HTTP-маршруты: API каталога, метрики и health-пробы.
func NewRouter(repo domain.OrderRepository, gatherer prometheus.Gatherer, logger *log.Entry) *mux.Router {
	router := mux.NewRouter()
	httpapi.NewHandler(repo, logger.WithField("layer", "http")).Register(router)

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("orders", health.NewRepositoryChecker("orders", repo))

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Handle("/healthz", healthHandler)
	router.HandleFunc("/livez", health.LivenessHandler)
	router.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	return router
}

// Serve поднимает HTTP API и блокируется до отмены ctx или ошибки сервера.
// При отмене ctx сервер останавливается аккуратно и возвращается ctx.Err().
func Serve(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	repoMetrics := metrics.NewRepositoryMetrics(registry)

	repo, err := OpenRepository(ctx, cfg, repoMetrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.WithError(err).Warn("close repository")
		}
	}()

	if warmer, ok := repo.OrderRepository.(interface{ Warm(context.Context) error }); ok {
		if err := warmer.Warm(ctx); err != nil {
			logger.WithError(err).Warn("не удалось прогреть кэш заказов")
		}
	}

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}

	srv := &http.Server{
		Handler:           NewRouter(repo, registry, logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"addr":   lis.Addr().String(),
			"source": cfg.Source,
			"cache":  cfg.Cache,
		}).Info("HTTP API слушает")
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
