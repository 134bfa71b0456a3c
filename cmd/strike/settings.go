package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/storage"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show stored settings",
	Long: `Shows the settings kept in the scores database.

Keys:
  last_map    - Map the picker opens on
  difficulty  - Default preset: easy, normal, hard
  bell        - Terminal bell on boss arrival and life loss: on, off

Examples:
  strike settings
  strike settings set difficulty hard
  strike settings set bell on`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a stored setting",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func openStoreOrExit() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSettings(_ *cobra.Command, _ []string) {
	store := openStoreOrExit()
	defer store.Close()

	settings, err := store.Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading settings: %v\n", err)
		os.Exit(1)
	}
	if len(settings) == 0 {
		fmt.Println("No settings stored.")
		return
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-12s %s\n", k, settings[k])
	}
}

// validateSetting checks a value for a known key.
func validateSetting(key, value string) error {
	switch key {
	case engine.SettingDifficulty:
		_, err := config.ParsePreset(value)
		return err
	case engine.SettingBell:
		if value != "on" && value != "off" {
			return fmt.Errorf("bell must be on or off, got %q", value)
		}
		return nil
	case engine.SettingLastMap:
		cfg, _ := loadGameConfig("", "", nil)
		if _, ok := cfg.Map(value); !ok {
			return fmt.Errorf("unknown map %q", value)
		}
		return nil
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}

func runSettingsSet(_ *cobra.Command, args []string) {
	logger, closeLog := newLogger("strike", io.Discard)
	defer closeLog()

	key, value := args[0], args[1]
	if err := validateSetting(key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStoreOrExit()
	defer store.Close()

	if err := store.SetSetting(key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving setting: %v\n", err)
		os.Exit(1)
	}
	logger.Info("setting changed", "key", key, "value", value)
	fmt.Printf("%s = %s\n", key, value)
}
