package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/layered-annotator/internal/config"
	"github.com/danielpatrickdp/layered-annotator/internal/logging"
)

// #region root
// globalOpts are the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}
	root := &cobra.Command{
		Use:   "annotator",
		Short: "Layered annotation pipeline over token batches",
		Long: `annotator runs token batches through the entropy and observer analyzers,
the coordination detectors and the synthesis step, and prints the unified report.

Configuration is read from --config (or ./annotator.yaml), then ANNOTATOR_*
environment variables, then flags.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newGlimpseCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// #endregion root

// #region setup
// setup loads configuration and builds the process logger.
func (o *globalOpts) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// #endregion setup
