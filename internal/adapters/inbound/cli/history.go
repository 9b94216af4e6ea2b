package cli

import (
	"encoding/json"
	"fmt"

	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous check runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := opts.colorMode()
			if err != nil {
				return err
			}

			entries, err := opts.service(cmd).History(opts.path)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			r := tui.NewRenderer(cmd.OutOrStdout(), mode)
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries, r))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print history as JSON")
	return cmd
}
