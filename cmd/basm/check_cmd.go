package main

import (
	goerrors "errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/parser"
	"github.com/basm-lang/basm/resolver"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and resolve source, reporting every diagnostic",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runCheck,
	}
	addSourceFlags(cmd.Flags(), "check")
	cmd.Flags().BoolP("quiet", "q", false, "Machine-readable output, one code:line:col per finding")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	display := filename
	if display == "" {
		display = "<stdin>"
	}

	var sink errors.Collector
	var popts []parser.Option
	if filename != "" {
		popts = append(popts, parser.WithFilename(filename))
	}
	unit, perr := parser.Parse(cmd.Context(), source, popts...)
	if perr != nil {
		var batch *parser.Errors
		if !goerrors.As(perr, &batch) {
			return perr
		}
		for _, d := range batch.Diagnostics() {
			sink.Report(d)
		}
	} else {
		// The resolver streams everything it finds to the sink, warnings
		// included, so the returned batch would only repeat it.
		_, _ = resolver.Resolve(unit, &resolver.Config{Source: source, Sink: &sink})
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	return a.reportFindings(cmd, display, sink.Diagnostics, quiet)
}

func (a *app) reportFindings(cmd *cobra.Command, filename string, diags []errors.Diagnostic, quiet bool) error {
	w := cmd.OutOrStdout()
	errCount := 0
	for _, d := range diags {
		if d.Severity == errors.SeverityError {
			errCount++
		}
	}

	switch {
	case quiet:
		for _, d := range diags {
			fmt.Fprintf(w, "%s:%d:%d\n", d.Code, d.Location.Line, d.Location.Column)
		}
	case len(diags) == 0:
		fmt.Fprintf(w, "%s: %s\n", filename, color.GreenString("OK"))
	default:
		formatter := errors.NewFormatter(!color.NoColor)
		for i, d := range diags {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, formatter.Format(d.ToFormatted()))
		}
		summary := fmt.Sprintf("%d error(s), %d warning(s)", errCount, len(diags)-errCount)
		fmt.Fprintln(w)
		if errCount > 0 {
			fmt.Fprintln(w, color.RedString(summary))
		} else {
			fmt.Fprintln(w, color.YellowString(summary))
		}
	}

	if errCount > 0 {
		return errFindings
	}
	return nil
}
