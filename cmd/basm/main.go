package main

import (
	goerrors "errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/parser"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errFindings signals that check already printed its findings; main exits
// non-zero without printing anything more.
var errFindings = goerrors.New("problems found")

// app carries the loaded configuration and logger to the subcommand
// handlers.
type app struct {
	cfg    Config
	logger zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !goerrors.Is(err, errFindings) {
			fmt.Fprint(os.Stderr, renderError(err))
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "basm",
		Short:         "Bidirectional toolchain for BASM bytecode assembly",
		Long: "basm assembles human-readable bytecode assembly into artifact\n" +
			"containers and disassembles containers back into editable source.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Configuration file (default ~/.config/basm/config.toml)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("color", "", "Colored output: auto, always, never")

	root.AddCommand(
		newAsmCmd(a),
		newDisCmd(a),
		newFmtCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration file and applies flag overrides before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if mode, _ := cmd.Flags().GetString("color"); mode != "" {
		cfg.Color = mode
	}

	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "", "auto":
		// The color package already detected the terminal.
	default:
		return fmt.Errorf("unknown color mode %q", cfg.Color)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("unknown log level %q", level)
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger(), nil
}

// renderError picks the richest display form the error supports: the
// Rust-style formatter for structured diagnostics, plain red text otherwise.
func renderError(err error) string {
	formatter := errors.NewFormatter(!color.NoColor)
	var batch *parser.Errors
	if goerrors.As(err, &batch) {
		return formatter.FormatMultiple(batch.ToFormattedMultiple())
	}
	var formattable errors.FormattableError
	if goerrors.As(err, &formattable) {
		return formatter.Format(formattable.ToFormatted())
	}
	return color.RedString(err.Error()) + "\n"
}
