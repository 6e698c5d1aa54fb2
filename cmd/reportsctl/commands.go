package main

import (
	"context"
	"encoding/json"
	"io"
	"reports-api/entities/report"
	"reports-api/schemas"
	"reports-api/utils"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// newService is replaced in tests.
var newService = report.Bootstrap

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Delete every report whose id was already seen",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, s *report.Service) (any, error) {
			return s.RunDeduplication(ctx)
		})
	},
}

var approveAllCmd = &cobra.Command{
	Use:   "approve-all",
	Short: "Mark every report as approved by the system actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, s *report.Service) (any, error) {
			return s.RunBulkApprove(ctx)
		})
	},
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Print the filter taxonomy extracted from all reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, s *report.Service) (any, error) {
			return s.Filters(ctx)
		})
	},
}

func newMapMetricsCmd() *cobra.Command {
	var mode, metric string
	var baseSize float64

	cmd := &cobra.Command{
		Use:   "map-metrics",
		Short: "Print per-region map metrics and the legend",
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := []string{schemas.MAP_MODE_DEFAULT, schemas.MAP_MODE_CHOROPLETH, schemas.MAP_MODE_BUBBLE}
			if !slices.Contains(modes, mode) {
				return eris.Wrapf(utils.ErrValidation, "invalid mode %q", mode)
			}
			if metric != schemas.MAP_METRIC_INTERVENTIONS && metric != schemas.MAP_METRIC_IMPACT {
				return eris.Wrapf(utils.ErrValidation, "invalid metric %q", metric)
			}
			return withService(cmd, func(ctx context.Context, s *report.Service) (any, error) {
				return s.MapMetrics(ctx, mode, report.MapOptions{Metric: metric, BaseSize: baseSize})
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", schemas.MAP_MODE_CHOROPLETH, "default, choropleth or bubble")
	cmd.Flags().StringVar(&metric, "metric", schemas.MAP_METRIC_INTERVENTIONS, "interventions or impact")
	cmd.Flags().Float64Var(&baseSize, "base-size", report.DEFAULT_BUBBLE_SIZE, "largest bubble radius")
	return cmd
}

func withService(cmd *cobra.Command, run func(ctx context.Context, s *report.Service) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	service, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := run(ctx, service)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "write output")
}
