package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mugwort-rc/TKY2JGD/internal/config"
	"github.com/mugwort-rc/TKY2JGD/internal/errors"
)

var cfg = &config.Config{}

var rootCmd = &cobra.Command{
	Use:   "tky2jgd [options] <latitude> <longitude>",
	Short: "Convert Tokyo Datum coordinates to JGD2000 by grid correction",
	Long: `tky2jgd converts geographic coordinates from the Tokyo Datum to JGD2000
using the GSI grid correction parameters (TKY2JGD.par): the correction for a
point is bilinearly interpolated from the four surrounding third-order mesh
nodes. A single point is given as positional arguments; --in switches to
batch mode reading "latitude longitude" lines from a file or stdin.`,
	Args: func(cmd *cobra.Command, args []string) error {
		// Positional coordinates are replaced by the input stream in batch mode.
		if cfg.InputFile != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runConvert,
}

// Execute runs the root command and handles top-level error reporting.
// This function serves as the main entry point for the CLI, providing
// consistent error formatting and exit code management for all command failures.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if te, ok := err.(*errors.TransformError); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", te.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cfg.ParFile, "par", "", "Grid parameter file (default: $TKY2JGD_PAR or "+config.DefaultParFile+")")
	rootCmd.Flags().StringVar(&cfg.InputFile, "in", "", "Batch input file with 'latitude longitude' lines ('-' for stdin)")
	rootCmd.Flags().StringVar(&cfg.OutputFile, "out", "", "Output file (default: stdout)")
	rootCmd.Flags().Var((*formatFlag)(&cfg.Format), "format", "Output format (text, csv, json)")
	rootCmd.Flags().BoolVarP(&cfg.Reverse, "reverse", "r", false, "Convert JGD2000 back to Tokyo Datum (iterative inverse)")
	rootCmd.Flags().BoolVar(&cfg.Lenient, "lenient", false, "Skip malformed parameter records instead of aborting the load")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose mode (summary on stderr)")
	rootCmd.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "Quiet mode")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if !cmd.Flag("par").Changed {
		// .env is optional; a missing file just leaves the environment as-is.
		_ = godotenv.Load()
		if env := os.Getenv("TKY2JGD_PAR"); env != "" {
			cfg.ParFile = env
		} else {
			cfg.ParFile = config.DefaultParFile
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return executeConvert(cfg, args)
}

type formatFlag config.OutputFormat

func (f *formatFlag) String() string {
	return string(*f)
}

func (f *formatFlag) Set(v string) error {
	switch v {
	case "text", "csv", "json":
		*f = formatFlag(v)
		return nil
	default:
		return fmt.Errorf("must be 'text', 'csv' or 'json'")
	}
}

func (f *formatFlag) Type() string {
	return "string"
}
