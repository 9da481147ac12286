// Command bookgen generates an opening book by exhaustively solving every
// reachable position up to a given ply depth, and writes it to disk in the
// compact binary format internal/book reads at startup.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/benjaminrall/connect-four-ai/internal/book"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("bookgen")
	}
}

func newRootCmd() *cobra.Command {
	var (
		maxDepth int
		output   string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "bookgen",
		Short: "Generate a Connect Four opening book up to a fixed ply depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			bar := progressbar.NewOptions(maxDepth+1,
				progressbar.OptionSetDescription("solving frontiers"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWriter(os.Stderr),
			)

			g := book.NewGenerator()
			b := g.Generate(maxDepth, func(depth, frontierSize int) {
				_ = bar.Add(1)
				log.Info().Int("depth", depth).Int("positions", frontierSize).Msg("frontier-solved")
			})
			fmt.Fprintf(os.Stderr, "\n")

			if err := b.Save(output); err != nil {
				return err
			}
			log.Info().Int("entries", b.Len()).Str("path", output).Msg("book-saved")
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 8, "maximum ply depth to solve and record")
	cmd.Flags().StringVar(&output, "output", "opening_book.bin", "path to write the generated book to")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	return cmd
}
