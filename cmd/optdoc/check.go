package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nieomylnieja/optdoc/pkg/optdoc"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the declaration file is up to date",
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

			result, err := optdoc.Generate(cmd.Context(), conf, optdoc.WithLogger(logger))
			if err != nil {
				return err
			}
			diff, err := optdoc.Check(result, conf)
			if errors.Is(err, optdoc.ErrOutdated) {
				printDiff(cmd.OutOrStdout(), diff)
			}
			return err
		},
	}
}

func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(w, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(w, color.RedString("%s", line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(w, color.CyanString("%s", line))
		default:
			fmt.Fprint(w, line)
		}
	}
}
