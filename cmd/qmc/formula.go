package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/quill-md-converter/document"
	"github.com/spf13/cobra"
)

func newFormulaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formula <latex>",
		Short: "Normalize LaTeX for a formula span and classify it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			latex := document.PrepareFormula(strings.Join(args, " "))
			if latex == "" {
				return errors.New("formula is empty")
			}
			kind := document.ClassifyFormula(latex, nil)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", kind, latex)
			return err
		},
	}
}
