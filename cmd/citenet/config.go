package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in ~/.config/citenet/config.yml.

Usage:
  citenet config                              # Show all config
  citenet config scan-interval                # Get specific value
  citenet config library-path ~/papers        # Set value

Keys:
  library-path      Library directory (must exist)
  s2-api-key        Semantic Scholar API key (S2_API_KEY takes priority)
  scan-interval     Pause between scan cycles (e.g. 10s, 1m)
  request-interval  Minimum spacing of Semantic Scholar requests
  request-timeout   Per-request timeout
  http-addr         Read API listen address for watch
  log-level         debug, info, warn or error
  extensions        Comma-separated file patterns (e.g. *.pdf,*.djvu)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string, len(config.Keys()))
		for _, k := range config.Keys() {
			v, _ := cfg.Get(k)
			values[k] = v
		}
		if humanOutput {
			for _, k := range config.Keys() {
				fmt.Printf("%-18s %s\n", k+":", displayValue(k, values[k]))
			}
		} else {
			values["s2_api_key"] = displayValue("s2_api_key", values["s2_api_key"])
			outputJSON(values)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			outputJSON(map[string]string{key: v})
		}
		return nil
	}

	// Two args: set value
	if err := cfg.Set(key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	v, _ := cfg.Get(key)
	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, displayValue(key, v))
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: displayValue(key, v)})
	}
	return nil
}

// normalizeKey accepts dashed key names (library-path -> library_path).
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}

// displayValue masks secrets.
func displayValue(key, value string) string {
	if key != "s2_api_key" || value == "" {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
