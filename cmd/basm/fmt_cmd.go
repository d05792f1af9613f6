package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/basm-lang/basm"
)

func newFmtCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Format BASM source in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runFmt,
	}
	addSourceFlags(cmd.Flags(), "format")
	cmd.Flags().BoolP("write", "w", false, "Write the result back to the source file")
	return cmd
}

func (a *app) runFmt(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	opts := []basm.Option{basm.WithLogger(a.logger), basm.WithIndent(a.indent())}
	if filename != "" {
		opts = append(opts, basm.WithFilename(filename))
	}
	text, err := basm.Format(cmd.Context(), source, opts...)
	if err != nil {
		return err
	}

	write, _ := cmd.Flags().GetBool("write")
	if write && filename != "" {
		return os.WriteFile(filename, []byte(text), 0o644)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}
