package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ejfox/dispatch-obsidian/internal/controllers"
	"github.com/ejfox/dispatch-obsidian/internal/dispatch/interfaces"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/services"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/watch"
)

type App struct {
	WebServer *http.Server
}

// NewApp wires the event flow, starts everything, and blocks until a
// shutdown signal. Ordering on the way down matters: the watcher and
// scheduler stop before the server so no job races the final persist.
func NewApp(
	apiController *controllers.ApiController,
	healthController *controllers.HealthController,
	scheduler interfaces.SchedulerInterface,
	watcher watch.WatcherInterface,
	status services.StatusServiceInterface,
	streaks services.StreakServiceInterface,
	session services.SessionServiceInterface,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	// A detected publish counts toward the weekly streak and is worth a
	// cheer in the log.
	status.OnPublish(func(slug string) {
		logger.Infof(providers.TypeDispatch, "Publish detected: %s", slug)
		metrics.IncPublishesDetected()
		if conf.Goals.StreaksEnabled && streaks.RecordPublishDay() {
			if err := scheduler.Persist(); err != nil {
				logger.Errorf(providers.TypeApp, "Persist after publish failed: %s", err)
			}
		}
	})

	// Debounced vault changes record a writing day and re-derive the word
	// numbers; at most one milestone fires per burst.
	watcher.SetHandler(func() {
		if conf.Goals.StreaksEnabled && streaks.RecordWritingDay() {
			if err := scheduler.Persist(); err != nil {
				logger.Errorf(providers.TypeApp, "Persist after writing day failed: %s", err)
			}
		}
		session.InvalidateDaily()
		if threshold, fired := session.CheckMilestones(); fired {
			logger.Infof(providers.TypeApp, "Milestone reached: %d words this session", threshold)
			metrics.IncCelebrations()
		}
	})

	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	// Prime the snapshot before taking the session baseline so a running
	// Dispatch gives us exact totals from the start.
	status.Refresh()
	session.Start()

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	if err := watcher.Start(); err != nil {
		logger.Errorf(providers.TypeVault, "Watcher start error: %s", err)
	}
	if err := scheduler.Init(); err != nil {
		return nil, err
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return nil, fmt.Errorf("server error: %w", err)
	}

	watcher.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	if err := scheduler.Persist(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
