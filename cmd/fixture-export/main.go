// fixture-export turns a persisted annotator session into a replay fixture.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/layered-annotator/internal/replay"
	"github.com/danielpatrickdp/layered-annotator/internal/state"
)

// #region main

type exportOpts struct {
	dbPath    string
	sessionID string
	seed      uint64
	outPath   string
}

func main() {
	if err := newExportCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newExportCmd() *cobra.Command {
	opts := &exportOpts{}
	cmd := &cobra.Command{
		Use:          "fixture-export --db path --session id [--out fixture.yaml] [--seed N]",
		Short:        "Export a persisted session as a replay fixture",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := run(opts)
			if err != nil {
				return err
			}
			if opts.outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.outPath, data, 0o644); err != nil {
				return fmt.Errorf("write fixture: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "path to the annotator SQLite database")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "session to export")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "seed written into the fixture")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "output fixture path (default stdout)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

// #endregion main

// #region extract

func run(opts *exportOpts) ([]byte, error) {
	store, err := state.NewStore(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	f, err := replay.ExportSession(store, opts.sessionID, opts.seed)
	if err != nil {
		return nil, err
	}
	return f.Marshal()
}

// #endregion extract
