package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/nebula-downloader/internal/cli"
	"github.com/handiism/nebula-downloader/internal/download"
	"github.com/handiism/nebula-downloader/internal/tui"
)

func main() {
	cmd := cli.NewRootCommand("nebula-dl", "Download selected Nebula episodes", func(cmd *cobra.Command) (download.Prompter, func(download.ProgressEvent)) {
		return tui.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout()), nil
	})
	cmd.Long = `nebula-dl lists the episodes of each channel, split by the configured
facet filter, and asks which ones to download: first from the excluded
list, then from the included list.

For the interactive interface, use: nebula-tui`

	os.Exit(cli.Execute(cmd))
}
