package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rgonek/quill-md-converter/converter"
	"github.com/spf13/cobra"
)

const defaultOutputFile = "output.md"

type convertOptions struct {
	preset    string
	allowHTML bool
	out       string
	quiet     bool
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [file.html]",
		Short: "Convert editor HTML to Markdown",
		Long: `Convert reads editor HTML from a file (or stdin) and writes Markdown.

Examples:
  qmc convert note.html
  qmc convert note.html --out
  cat note.html | qmc convert --preset html --out note.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", "", "Preset: balanced|html|plain|github (ignored with --config)")
	cmd.Flags().BoolVar(&opts.allowHTML, "allow-html", false, "Keep underline as <u> HTML")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write Markdown to a file instead of stdout")
	cmd.Flags().Lookup("out").NoOptDefVal = defaultOutputFile
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print conversion warnings")
	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(opts.preset, opts.allowHTML)
	if err != nil {
		return err
	}
	if root.configPath != "" {
		fileCfg, err := root.load()
		if err != nil {
			return err
		}
		cfg = fileCfg.Converter
		if opts.allowHTML {
			cfg.UnderlineStyle = converter.UnderlineHTML
		}
	}

	conv, err := converter.New(cfg)
	if err != nil {
		return err
	}
	res, err := conv.ConvertWithContext(cmd.Context(), string(input), converter.ConvertOptions{})
	if err != nil {
		return err
	}

	if !opts.quiet {
		warn := color.New(color.FgYellow)
		for _, w := range res.Warnings {
			warn.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Type, w.Message)
		}
	}

	if opts.out == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Markdown)
		return err
	}
	if err := os.WriteFile(opts.out, []byte(res.Markdown+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.out)
	return nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
