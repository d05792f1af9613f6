package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/basm-lang/basm"
	"github.com/basm-lang/basm/bytecode"
)

func newAsmCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asm [file]",
		Short: "Assemble BASM source into an artifact container",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runAsm,
	}
	addSourceFlags(cmd.Flags(), "assemble")
	cmd.Flags().StringP("output", "o", "", "Write the container to this file instead of stdout")
	return cmd
}

func (a *app) runAsm(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	opts := []basm.Option{basm.WithLogger(a.logger)}
	if filename != "" {
		opts = append(opts, basm.WithFilename(filename))
	}
	unit, err := basm.Assemble(cmd.Context(), source, opts...)
	if err != nil {
		return err
	}

	data, err := bytecode.Marshal(unit)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
