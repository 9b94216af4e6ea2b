package cli

import (
	"encoding/json"
	"fmt"

	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/heartlink/heartlink/internal/application"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		ciMode     bool
		format     string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the environment check",
		Long:  "Run every probe, print the report and save it. With --ci the command exits 1 when any critical probe fails.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checkOpts := application.CheckOptions{OutputPath: output}
			switch format {
			case "text":
			case "markdown", "md":
				checkOpts.Markdown = true
			default:
				return fmt.Errorf("invalid format %q (valid: text, markdown)", format)
			}

			var out *application.CheckOutcome
			var err error
			if jsonOutput {
				out, err = runEnvironmentCheckJSON(cmd, opts, checkOpts)
			} else {
				out, err = runEnvironmentCheck(cmd, opts, checkOpts)
			}
			if err != nil {
				return err
			}

			if ciMode && out.Report.Status == domain.StatusFail {
				_, _, fail := out.Report.Counts()
				return fmt.Errorf("environment check failed: %d critical probe(s) failed", fail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if the overall status is FAIL")
	cmd.Flags().StringVar(&format, "format", "text", "Saved report format: text or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report file path (defaults to report_path from config)")

	return cmd
}

// runEnvironmentCheck runs one check and prints the colored report followed
// by where it was saved.
func runEnvironmentCheck(cmd *cobra.Command, opts *globalOptions, checkOpts application.CheckOptions) (*application.CheckOutcome, error) {
	mode, err := opts.colorMode()
	if err != nil {
		return nil, err
	}
	w := cmd.OutOrStdout()
	r := tui.NewRenderer(w, mode)

	out, err := opts.service(cmd).Run(cmd.Context(), opts.path, checkOpts)
	if err != nil {
		return nil, fmt.Errorf("check failed: %w", err)
	}

	fmt.Fprint(w, tui.Render(out.Report, r))
	fmt.Fprintln(w)
	if out.SaveErr != nil {
		fmt.Fprint(w, tui.RenderNotice(r, domain.StatusWarn, fmt.Sprintf("Could not save report: %v", out.SaveErr)))
		return out, nil
	}
	fmt.Fprintf(w, "Report saved to: %s\n", out.ReportPath)
	if out.MarkdownPath != "" {
		fmt.Fprintf(w, "Markdown report saved to: %s\n", out.MarkdownPath)
	}
	return out, nil
}

func runEnvironmentCheckJSON(cmd *cobra.Command, opts *globalOptions, checkOpts application.CheckOptions) (*application.CheckOutcome, error) {
	out, err := opts.service(cmd).Run(cmd.Context(), opts.path, checkOpts)
	if err != nil {
		return nil, fmt.Errorf("check failed: %w", err)
	}
	data, err := json.MarshalIndent(out.Report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return out, nil
}
