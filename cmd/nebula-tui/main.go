package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/handiism/nebula-downloader/internal/cli"
	"github.com/handiism/nebula-downloader/internal/download"
	"github.com/handiism/nebula-downloader/internal/tui"
)

func main() {
	cmd := cli.NewRootCommand("nebula-tui", "Download selected Nebula episodes (interactive)", func(cmd *cobra.Command) (download.Prompter, func(download.ProgressEvent)) {
		// Piped input has no screen to draw on.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return tui.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout()), nil
		}
		p := tui.NewPrompter(nil, nil)
		return p, p.Record
	})

	os.Exit(cli.Execute(cmd))
}
