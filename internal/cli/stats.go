package cli

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
}

// MetricSample is one gathered sample in JSON output.
type MetricSample struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Labels map[string]string `json:"labels"`
	Value  float64           `json:"value"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats <scenario-file>",
		Short: "Print store metrics after building a scenario",
		Long: `Build a scenario and gather the store registry's prometheus metrics.

Text output uses the prometheus exposition format:
  eavstore_store_size{store}        absent to present transitions
  eavstore_store_live_facts{store}  facts currently present
  eavstore_store_includes{store}    direct includes
  eavstore_inserts_total{store,kind} effective inserts (assert|retract)

Examples:
  eavstore stats people.yaml
  eavstore stats people.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args[0], cmd)
		},
	}

	return cmd
}

func runStats(opts *StatsOptions, path string, cmd *cobra.Command) error {
	_, result, err := buildScenario(opts.RootOptions, path)
	if err != nil {
		return err
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(result.Registry.Collector()); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric, "failed to register collector", err)
	}
	families, err := reg.Gather()
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric, "failed to gather metrics", err)
	}

	formatter := opts.formatter(cmd)
	if opts.Format == "json" {
		return formatter.Success(samples(families))
	}

	var buf strings.Builder
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}

// samples flattens gathered families into gauge and counter samples.
func samples(families []*dto.MetricFamily) []MetricSample {
	out := []MetricSample{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			s := MetricSample{
				Name:   mf.GetName(),
				Type:   strings.ToLower(mf.GetType().String()),
				Labels: make(map[string]string, len(m.GetLabel())),
			}
			for _, lp := range m.GetLabel() {
				s.Labels[lp.GetName()] = lp.GetValue()
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				s.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				s.Value = m.GetGauge().GetValue()
			default:
				continue
			}
			out = append(out, s)
		}
	}
	return out
}
