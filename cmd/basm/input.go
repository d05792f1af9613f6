package main

import (
	goerrors "errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addSourceFlags registers the flags shared by every command that reads
// assembly text.
func addSourceFlags(flags *pflag.FlagSet, verb string) {
	flags.StringP("code", "c", "", "Source text to "+verb)
	flags.Bool("stdin", false, "Read source from stdin")
}

// readSource returns the assembly text and the file name it came from.
// There are three possible sources: the -c flag, --stdin, or a file
// argument; exactly one must be supplied. The file name is empty unless the
// text came from a file.
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	fileProvided := len(args) > 0

	count := 0
	if codeSet {
		count++
	}
	if stdinSet {
		count++
	}
	if fileProvided {
		count++
	}
	if count > 1 {
		return "", "", goerrors.New("multiple input sources specified")
	}
	if count == 0 {
		return "", "", goerrors.New("no input provided")
	}

	if stdinSet {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	}
	if fileProvided {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, "", nil
}

// readArtifact returns artifact container bytes from --stdin or a file
// argument, with a display name for diagnostics.
func readArtifact(cmd *cobra.Command, args []string) ([]byte, string, error) {
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	fileProvided := len(args) > 0

	if stdinSet && fileProvided {
		return nil, "", goerrors.New("multiple input sources specified")
	}
	if stdinSet {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", err
		}
		return data, "<stdin>", nil
	}
	if !fileProvided {
		return nil, "", goerrors.New("no input provided")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return data, args[0], nil
}
