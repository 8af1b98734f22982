package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"snookerviz/internal/clock"
	"snookerviz/internal/configuration"
	"snookerviz/internal/journal"
	"snookerviz/internal/predict"
	"snookerviz/internal/scrape"
	"snookerviz/internal/server"
	"snookerviz/internal/session"
	"snookerviz/internal/workbook"

	"github.com/spf13/cobra"
)

func newServeCmd(cfg func() *configuration.AppConfig) *cobra.Command {
	var workbookPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := cfg()
			if workbookPath != "" {
				config.Server.Workbook = workbookPath
			}
			return serve(config)
		},
	}
	cmd.Flags().StringVar(&workbookPath, "workbook", "", "workbook shown to sessions that have not uploaded one")
	return cmd
}

func serve(config *configuration.AppConfig) error {
	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	thresholds, err := config.ThresholdSet()
	if err != nil {
		return err
	}

	c := &clock.DefaultClock{}
	sessions := session.NewStore(config.Session.History, config.Session.TTL, c)
	if config.Server.Workbook != "" {
		ds, err := workbook.LoadFile(config.Server.Workbook)
		if err != nil {
			return fmt.Errorf("load default workbook: %w", err)
		}
		sessions.SetDefault(ds)
	}
	go sessions.Serve()
	defer sessions.Stop()

	predictor, closeJournal, err := newPredictor(config)
	if err != nil {
		return err
	}
	defer closeJournal()

	router := server.NewRouter(server.Options{
		Static:      config.Server.Static,
		Cookie:      config.Session.Cookie,
		UploadLimit: config.Server.UploadBytes(),
		Thresholds:  thresholds,
		Chart:       config.Chart.Options(),
	}, sessions, predictor, c)
	srv := server.NewServer(config.Server.Address, config.Server.ReadTimeout, config.Server.WriteTimeout, router)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Server listening " + config.Server.Address)

	select {
	case <-appCtx.Done():
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")
	return nil
}

// newPredictor wires the scraper, the scorers and the optional journal.
// The returned func closes the journal.
func newPredictor(config *configuration.AppConfig) (*predict.Service, func(), error) {
	sc := config.Scraper
	client := scrape.NewClient(sc.URL, sc.UserAgent, sc.Timeout, sc.Selectors)

	scorers := []predict.Scorer{predict.ThresholdScorer{}}
	if config.Prediction.Rules != "" {
		rules, err := predict.LoadRules(config.Prediction.Rules)
		if err != nil {
			return nil, nil, fmt.Errorf("load rules: %w", err)
		}
		scorers = append(scorers, predict.NewRulesScorer(rules))
		slog.Info("Bias rules loaded", "file", config.Prediction.Rules, "rules", len(rules))
	}

	var recorder predict.Recorder
	closeJournal := func() {}
	if jc := config.Prediction.Journal; jc.File != "" {
		j := journal.New(jc.File, jc.Size, jc.Amount)
		recorder = j
		closeJournal = func() {
			if err := j.Close(); err != nil {
				slog.Warn("Unable to close prediction journal", "error", err)
			}
		}
	}

	service := predict.NewService(client, predict.NewCompositeScorer(scorers...), recorder, sc.MinScore, config.Prediction.Margin)
	return service, closeJournal, nil
}
