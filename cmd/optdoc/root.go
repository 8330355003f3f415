package main

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/internal/config"
	"github.com/nieomylnieja/optdoc/internal/pathutils"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "optdoc",
		Short:         "Generate option references and TypeScript declarations from JSDoc comments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to the configuration file, looked up in the parent directories by default")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug diagnostics")

	root.AddCommand(
		newGenerateCmd(opts),
		newCheckCmd(opts),
		newConfigCmd(),
	)
	return root
}

// loadConfig reads the configuration file, falling back to the defaults
// rooted at the working directory when no file is found.
func (o *rootOptions) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		dir, err := pathutils.FindProjectRoot(config.DefaultFilename)
		if err != nil {
			conf := config.Default()
			if conf.Project.Root, err = filepath.Abs(conf.Project.Root); err != nil {
				return config.Config{}, errors.Wrap(err, "failed to resolve project root")
			}
			return conf, nil
		}
		path = filepath.Join(dir, config.DefaultFilename)
	}
	return config.Load(path)
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if o.verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}
