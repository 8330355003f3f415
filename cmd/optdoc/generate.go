package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nieomylnieja/optdoc/pkg/optdoc"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var filtered []string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write tree.json, raw.json and the declaration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			result, err := optdoc.Generate(cmd.Context(), conf,
				optdoc.WithLogger(logger),
				optdoc.WithFilteredPaths(filtered...))
			if err != nil {
				return err
			}
			if err = optdoc.Write(result, conf); err != nil {
				return err
			}
			logger.Info("generated documentation",
				zap.String("version", result.Meta.Version),
				zap.Int("doclets", len(result.Doclets)))
			fmt.Fprintln(cmd.OutOrStdout(), conf.Path(conf.Output.Declarations))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&filtered, "filter", nil, "Option paths removed from the output, e.g. plotOptions.series.internal")
	return cmd
}
