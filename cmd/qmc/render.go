package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rgonek/quill-md-converter/renderer"
	"github.com/rgonek/quill-md-converter/resolver"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	html        bool
	strict      bool
	urls        map[string]string
	resolverURL string
	timeout     time.Duration
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file.md]",
		Short: "Render Markdown with math and uploaded images",
		Long: `Render reads Markdown from a file (or stdin), resolves upload tokens and
prints either the display segments as JSON or the rendered HTML.

Examples:
  qmc render note.md --url upload-1=https://cdn.example/1.png
  qmc render note.md --resolver-url https://api.example --html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Print HTML instead of segments JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when an image cannot be resolved")
	cmd.Flags().StringToStringVar(&opts.urls, "url", nil, "Static image URL as token=url (repeatable)")
	cmd.Flags().StringVar(&opts.resolverURL, "resolver-url", "", "Base URL of a public URL signing service")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Resolution timeout")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := root.load()
	if err != nil {
		return err
	}

	var res renderer.Resolver = resolver.NewStatic(opts.urls)
	if opts.resolverURL != "" {
		res = resolver.NewHTTP(opts.resolverURL)
	}
	rcfg := cfg.RendererFor(res)
	if opts.strict {
		rcfg.ResolutionMode = renderer.ResolutionStrict
	}

	r, err := renderer.New(rcfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	out, err := r.Render(ctx, string(input))
	if err != nil {
		return err
	}

	notFound := 0
	for _, seg := range out.Segments {
		if seg.State == renderer.ImageNotFound {
			notFound++
		}
	}
	if notFound > 0 {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: %d image(s) not found\n", notFound)
	}

	if opts.html {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out.HTML)
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out.Segments)
}
