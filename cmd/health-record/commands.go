package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apphttp "github.com/WailSalutem-Health-Care/health-record-editor/internal/http"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the screen host for one health record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch a health record once and print its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			recordID, _ := cmd.Flags().GetInt("record-id")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return runShow(cmd.Context(), recordID, timeout)
		},
	}
	cmd.Flags().Int("record-id", 0, "Record to show (defaults to RECORD_ID)")
	cmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for the record")
	return cmd
}

func runServer() error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	s, err := a.newSession(a.cfg.RecordID)
	if err != nil {
		return err
	}
	s.view.Mount(ctx)
	defer s.view.Unmount()

	host := apphttp.NewHost(ctx, s.view, s.nav, s.notes, logger)
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           apphttp.SetupRouter(host, a.metrics, a.cfg.Origins()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Int("record_id", a.cfg.RecordID).Msg("starting screen host")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down screen host")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("screen host stopped")
	return nil
}

func runShow(ctx context.Context, recordID int, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	if recordID == 0 {
		recordID = a.cfg.RecordID
	}
	s, err := a.newSession(recordID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-s.view.Mount(ctx):
	case <-ctx.Done():
		s.view.Unmount()
		return fmt.Errorf("timed out waiting for health record %d", recordID)
	}

	if messages := s.notes.Drain(); len(messages) > 0 {
		for _, m := range messages {
			fmt.Fprintln(os.Stderr, m)
		}
		return fmt.Errorf("health record %d could not be loaded", recordID)
	}
	return s.view.Model().WriteText(os.Stdout)
}
