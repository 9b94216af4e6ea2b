package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/heartlink/heartlink/internal/adapters/outbound/command"
	"github.com/heartlink/heartlink/internal/adapters/outbound/config"
	"github.com/heartlink/heartlink/internal/adapters/outbound/envfile"
	"github.com/heartlink/heartlink/internal/adapters/outbound/gitinfo"
	"github.com/heartlink/heartlink/internal/adapters/outbound/gpu"
	"github.com/heartlink/heartlink/internal/adapters/outbound/history"
	"github.com/heartlink/heartlink/internal/adapters/outbound/host"
	"github.com/heartlink/heartlink/internal/adapters/outbound/report"
	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/heartlink/heartlink/internal/application"
	"github.com/heartlink/heartlink/internal/domain/check"
	hlog "github.com/heartlink/heartlink/internal/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	path    string
	verbose bool
	color   string
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	return hlog.New(cmd.ErrOrStderr(), o.verbose)
}

func (o *globalOptions) colorMode() (tui.ColorMode, error) {
	return tui.ParseColorMode(o.color)
}

// service builds the check service for the selected project.
func (o *globalOptions) service(cmd *cobra.Command) *application.CheckService {
	logger := o.logger(cmd)
	if path, err := config.New().Path(o.path); err == nil {
		logger.Debug("using config file", "path", path)
	}
	return newCheckService(logger)
}

// newCheckService wires the production adapters.
func newCheckService(logger *slog.Logger) *application.CheckService {
	commands := command.New(logger)
	return application.NewCheckService(application.Adapters{
		Config: config.New(),
		Probes: check.Deps{
			Host:     host.New(commands),
			Commands: commands,
			GPU:      gpu.New(commands),
			EnvFile:  envfile.New(),
		},
		Text:     report.NewTextWriter(),
		Markdown: report.NewMarkdownWriter(),
		History:  history.New(),
		Git:      gitinfo.New(),
	}, logger)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var autoCheck bool

	cmd := &cobra.Command{
		Use:   "heartlink",
		Short: "Check that this machine is ready to run HeartLink",
		Long: "HeartLink inspects the host (OS, Python, Node.js, npm, pip, GPU and .env keys), " +
			"prints a colored report and saves a plain-text copy.\n\n" +
			"Run without arguments for the interactive menu, or with --auto-check to check immediately.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if autoCheck {
				_, err := runEnvironmentCheck(cmd, opts, application.CheckOptions{})
				return err
			}
			return runMenu(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&autoCheck, "auto-check", false, "Run the environment check immediately and exit")
	cmd.PersistentFlags().StringVar(&opts.path, "path", ".", "Project root containing .env and .heartlink.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.color, "color", string(tui.ColorAuto), "Colorize output: auto, always or never")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI and prints any returned error to stderr.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
