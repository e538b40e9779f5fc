package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/fanplan/internal/cli"
	"github.com/Veraticus/fanplan/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate entity and content recommendations",
		Long: `Score new entities to follow from your follows and spending, boost the ones
similar fans like, and suggest albums, merchandise and experiences for the
entities you already follow. The result is cached for "fanplan cached".`,
		RunE: runRecommend,
	}
	addUserFlag(cmd)
	cmd.Flags().Bool("show-metrics", false, "Print generation metrics after the results")
	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	showMetrics, _ := cmd.Flags().GetBool("show-metrics")

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Recommendation run")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	userID, err := resolveUser(ctx, cmd, store)
	if err != nil {
		return err
	}

	engine, err := newEngine(store)
	if err != nil {
		return err
	}

	result, err := engine.GenerateFor(ctx, sources(store), userID)
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return fmt.Errorf("failed to generate recommendations: %w", err)
	}

	slog.Debug("Generated recommendations",
		"user", userID,
		"entities", len(result.Entities),
		"content", len(result.Content))

	out := cmd.OutOrStdout()
	if err := cli.RenderEntityRecommendations(out, result.Entities); err != nil {
		return err
	}
	if err := cli.RenderContentRecommendations(out, result.Content); err != nil {
		return err
	}

	if showMetrics {
		samples, err := metrics.Snapshot(prometheus.DefaultGatherer)
		if err != nil {
			return err
		}
		return cli.RenderMetrics(out, samples)
	}
	return nil
}

func cachedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cached",
		Short: "Show the last generated recommendations without recomputing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snap := newCache(store).Load(ctx)
			if snap != nil && cmd.Flags().Changed("user") {
				userID, err := resolveUser(ctx, cmd, store)
				if err != nil {
					return err
				}
				if snap.UserID != userID {
					fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("The cached recommendations belong to another user."))
					snap = nil
				}
			}
			return cli.RenderSnapshot(cmd.OutOrStdout(), snap, time.Now())
		},
	}
	addUserFlag(cmd)
	return cmd
}
