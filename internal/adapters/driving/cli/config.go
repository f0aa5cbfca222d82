package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration.

Common keys:
  embedding.provider   ollama or openai (default: ollama)
  embedding.model      embedding model name
  embedding.base_url   provider API base URL
  chunker.chunk_size   characters per chunk
  chunker.overlap      overlapping characters between chunks
  storage.data_dir     store location (default: ~/.recall/data)`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the embedding provider API key",
	Long:  `Prompts for the API key without echoing it to the terminal.`,
	RunE:  runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := configKeys()
	if len(keys) == 0 {
		cmd.Printf("No configuration set (%s)\n", configStore.Path())
		return nil
	}

	cmd.Printf("Configuration (%s):\n", configStore.Path())
	for _, key := range keys {
		val, _ := configStore.Get(key)
		if strings.Contains(key, "api_key") {
			val = maskAPIKey(fmt.Sprint(val))
		}
		cmd.Printf("  %s = %v\n", key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("API key: ")
	key := readSecret()
	cmd.Println()
	if key == "" {
		return errors.New("empty API key")
	}

	if err := configStore.Set("embedding.api_key", key); err != nil {
		return fmt.Errorf("store API key: %w", err)
	}
	cmd.Println("API key saved")
	return nil
}

// configKeys returns the known keys that currently hold a value, sorted.
func configKeys() []string {
	known := []string{
		"embedding.provider",
		"embedding.model",
		"embedding.base_url",
		"embedding.api_key",
		"chunker.chunk_size",
		"chunker.overlap",
		"storage.data_dir",
	}

	var keys []string
	for _, key := range known {
		if _, ok := configStore.Get(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// parseConfigValue keeps TOML types sensible: ints and bools are
// stored as such, everything else as a string.
func parseConfigValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
