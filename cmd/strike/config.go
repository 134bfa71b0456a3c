package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/star-strike/internal/config"
)

var (
	flagConfigDefault bool
	flagConfigDiff    string
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Print the effective configuration",
	Long: `Prints the configuration a run would use as YAML, after the search
order and the difficulty preset are applied. Pass a path to validate and
print a custom file.

Search order:
  1. path argument
  2. ~/.strike/configs/strike.yaml
  3. ./configs/strike.yaml
  4. built-in defaults

Examples:
  strike config
  strike config --default > ~/.strike/configs/strike.yaml
  strike config ./my-strike.yaml --difficulty hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in defaults")
	configCmd.Flags().StringVar(&flagConfigDiff, "difficulty", "", "Apply a difficulty preset: easy, normal, hard")
}

func runConfig(_ *cobra.Command, args []string) {
	if flagConfigDefault {
		os.Stdout.Write(config.DefaultYAML()) //nolint:errcheck
		return
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	cfg, _ := loadGameConfig(path, flagConfigDiff, nil)

	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data) //nolint:errcheck
}
