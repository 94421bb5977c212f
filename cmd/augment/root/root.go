package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/augment/cmd/augment/run"
	"github.com/kbukum/augment/cmd/augment/validate"
	"github.com/kbukum/augment/cmd/augment/version"
)

// NewRootCmd creates the root command for augment.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "augment",
		Short: "Generate deformed variants of annotated audio documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(version.NewCmd())
	cmd.AddCommand(validate.NewCmd())
	cmd.AddCommand(run.NewCmd())

	return cmd
}

// Execute runs the root command with provided args.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
