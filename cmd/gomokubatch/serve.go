package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/e8yes/gomokubatch/internal/domain"
	"github.com/e8yes/gomokubatch/internal/metrics"

	"golang.org/x/sync/errgroup"
)

func serveMetricsCmd(a *app) *cobra.Command {
	var c = &cobra.Command{
		Use:   "serve-metrics",
		Short: "Keep drawing batches and expose sampler metrics over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ctx = cmd.Context()
			source, closeStore, err := openStore(ctx, a.cfg.Store, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			sel, err := a.cfg.Sampler.Selector()
			if err != nil {
				return err
			}
			var s = a.newSampler(source)
			metrics.RegisterMetrics()

			var mux = http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			var server = &http.Server{
				Addr:              a.cfg.Metrics.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				a.logger.Info().Str("addr", server.Addr).Msg("metrics listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-ctx.Done()
				var shutdownCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			g.Go(func() error {
				var ticker = time.NewTicker(a.cfg.Metrics.Interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
					}
					batch, err := s.NextBatch(ctx, a.cfg.Sampler.BatchSize, sel, a.cfg.Sampler.Augment)
					if err != nil {
						if errors.Is(err, domain.ErrInsufficientData) || errors.Is(err, domain.ErrSampleFetch) {
							a.logger.Warn().Err(err).Msg("batch skipped")
							continue
						}
						return err
					}
					a.logger.Debug().Int("examples", batch.Len()).Msg("batch drawn")
				}
			})

			return g.Wait()
		},
	}
	c.Flags().StringVar(&a.flags.Metrics.Addr, "addr", a.flags.Metrics.Addr, "Metrics listen address")
	return c
}
