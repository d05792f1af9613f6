package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basm-lang/basm"
	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/dis"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/printer"
)

func newDisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble an artifact container back to source",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runDis,
	}
	cmd.Flags().Bool("stdin", false, "Read the container from stdin")
	cmd.Flags().Bool("listing", false, "Print an offset/opcode/operand table instead of source")
	cmd.Flags().StringP("output", "o", "", "Write the source to this file instead of stdout")
	return cmd
}

func (a *app) runDis(cmd *cobra.Command, args []string) error {
	data, name, err := readArtifact(cmd, args)
	if err != nil {
		return err
	}

	unit, err := bytecode.Unmarshal(data)
	if err != nil {
		return &errors.Diagnostic{
			Code:     errors.E4006,
			Severity: errors.SeverityError,
			Message:  fmt.Sprintf("%s: %s", name, strings.TrimPrefix(err.Error(), "bytecode: ")),
		}
	}

	if listing, _ := cmd.Flags().GetBool("listing"); listing {
		return a.printListing(cmd, unit)
	}

	tree, err := basm.Disassemble(unit, basm.WithLogger(a.logger))
	if err != nil {
		return err
	}
	text, err := printer.Sprint(tree, printer.WithIndent(a.indent()))
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return os.WriteFile(out, []byte(text), 0o644)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}

func (a *app) printListing(cmd *cobra.Command, unit *bytecode.Unit) error {
	m, ok := unit.AsMethod()
	if !ok {
		return fmt.Errorf("a %s artifact has no code listing", unit.Kind())
	}
	rows, err := dis.Listing(m)
	if err != nil {
		return err
	}

	switch a.cfg.Listing.Style {
	case "", "table":
		dis.Print(rows, cmd.OutOrStdout())
	case "plain":
		w := cmd.OutOrStdout()
		for _, row := range rows {
			if row.Annotation != "" {
				fmt.Fprintf(w, "%6d: %-16s %s\n", row.Offset, row.Name, row.Annotation)
			} else {
				fmt.Fprintf(w, "%6d: %s\n", row.Offset, row.Name)
			}
		}
	default:
		return fmt.Errorf("unknown listing style %q", a.cfg.Listing.Style)
	}
	return nil
}
