package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/progstudio/logger"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func init() {
	serveCmd.Flags().StringVarP(&backendFlag, "backend", "b", "", "audio backend: synth, midi or none (defaults to AUDIO_BACKEND)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves the studio over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := backendFlag
		if backend == "" {
			backend = cfg.AudioBackend
		}
		trigger, closer, err := openBackend(backend)
		if err != nil {
			return err
		}
		defer closer.Close()

		s, err := newStudio(trigger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)+1)
		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: NewRouter(ctx, s, limiter),
		}

		go func() {
			<-ctx.Done()
			s.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("Starting server", logger.Fields{"port": cfg.Port, "backend": backend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
