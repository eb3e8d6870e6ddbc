package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backmassage/vidbatch/internal/config"
)

// newRootCommand builds the single vidbatch command. The batch exit code is
// stored in *code; a non-nil error from Execute means the command line or
// config was rejected before any work started.
func newRootCommand(code *int, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidbatch <source_dir>",
		Short: "Batch-convert a directory tree of videos to MP4",
		Long: "vidbatch walks source_dir for .mp4 and .mkv files and converts each one to\n" +
			"H.264/AAC MP4 under the output directory, keeping the relative layout.\n" +
			"Existing outputs are skipped unless --no-skip-existing is given.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			*code = convert(cmd.Context(), &cfg, stdout, stderr)
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}
