package run

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/kbukum/augment/config"
)

type options struct {
	cfgPath  string
	title    string
	duration float64
	limit    int
}

// maxDuration caps the synthetic document at one day, one beat per second.
const maxDuration = 24 * 60 * 60

func checkDuration(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 || d > maxDuration {
		return fmt.Errorf("--duration must be in (0, %d] seconds, got %v", maxDuration, d)
	}
	return nil
}

// NewCmd creates the `augment run` command.
func NewCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline over a synthetic document and print its variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfgPath == "" {
				return fmt.Errorf("missing required flag: --config")
			}
			if err := checkDuration(opts.duration); err != nil {
				return err
			}
			cfg, err := config.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.cfgPath, "config", "c", "", "Path to pipeline config (.yml)")
	cmd.Flags().StringVar(&opts.title, "title", "synthetic", "Title of the generated document")
	cmd.Flags().Float64Var(&opts.duration, "duration", 10, "Duration of the generated document in seconds")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Stop after this many variants (0 for all)")
	return cmd
}
