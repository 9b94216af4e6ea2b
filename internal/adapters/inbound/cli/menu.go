package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/heartlink/heartlink/internal/application"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/spf13/cobra"
)

const (
	menuRunCheck = "1"
	menuExit     = "2"
)

// runMenu shows the interactive menu until the user exits or stdin closes.
func runMenu(cmd *cobra.Command, opts *globalOptions) error {
	mode, err := opts.colorMode()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	r := tui.NewRenderer(w, mode)
	in := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprint(w, tui.RenderBanner(r, version))
	for {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s) Run environment check\n", menuRunCheck)
		fmt.Fprintf(w, "  %s) Exit\n", menuExit)
		fmt.Fprint(w, "Select an option: ")

		choice, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading menu choice: %w", err)
		}
		eof := err != nil

		choice = strings.TrimSpace(choice)
		if eof && choice == "" {
			fmt.Fprintln(w)
			return nil
		}

		switch choice {
		case menuRunCheck:
			fmt.Fprintln(w)
			if _, err := runEnvironmentCheck(cmd, opts, application.CheckOptions{}); err != nil {
				return err
			}
		case menuExit:
			fmt.Fprintln(w, "Bye.")
			return nil
		default:
			fmt.Fprint(w, tui.RenderNotice(r, domain.StatusWarn, "Invalid option, enter 1 or 2."))
		}
		if eof {
			return nil
		}
	}
}
