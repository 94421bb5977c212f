package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/augment/config"
	"github.com/kbukum/augment/deform"
)

// NewCmd creates the `augment validate` command. It loads the config and
// builds the stage tree without running it.
func NewCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a pipeline config and its stage tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				return fmt.Errorf("missing required flag: --config")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if _, err := deform.DefaultRegistry().Build(cfg.Pipeline.Stage); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", cfg.Pipeline.Name)
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to pipeline config (.yml)")
	return cmd
}
