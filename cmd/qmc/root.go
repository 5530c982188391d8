package main

import (
	"github.com/rgonek/quill-md-converter/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "qmc",
		Short: "qmc converts rich-text editor HTML to Markdown and renders it back",
		Long: `qmc turns HTML produced by a Quill-style editor (formula spans, pending
image uploads, underline) into canonical Markdown, and renders Markdown with
LaTeX and uploaded images back into a document.

Usage:
  qmc convert <file.html> [flags]
  qmc render <file.md> [flags]
  qmc formula <latex>
  qmc serve --config qmc.yaml`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")

	cmd.AddCommand(
		newConvertCmd(opts),
		newRenderCmd(opts),
		newFormulaCmd(),
		newServeCmd(opts),
	)
	return cmd
}

// load returns the configuration from --config and the environment.
func (o *rootOptions) load() (config.Config, error) {
	return config.Load(o.configPath)
}
