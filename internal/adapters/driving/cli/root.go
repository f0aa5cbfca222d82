// Package cli implements the command-line interface using cobra.
// Commands resolve their services lazily so lightweight commands like
// version and config never touch the store or the embedding provider.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
	"github.com/recall-labs/recall-cli/internal/logger"
)

var (
	version = "dev"
	verbose bool
	dataDir string

	retrievalService driving.RetrievalService
	serviceBuilder   func() (driving.RetrievalService, error)
	configStore      driven.ConfigStore

	initialized bool
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Search your course materials from the terminal",
	Long: `Recall indexes lecture notes, slides and other course materials into a
local store and answers questions with semantic similarity search.
All data stays on your machine.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "store location (default ~/.recall/data)")
}

// DataDir returns the --data-dir override, or empty for the default.
func DataDir() string {
	return dataDir
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetConfigStore sets the configuration store used by the config command.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetServiceBuilder registers the factory that wires the retrieval
// service on first use.
func SetServiceBuilder(builder func() (driving.RetrievalService, error)) {
	serviceBuilder = builder
}

// SetRetrievalService injects a ready-made service, bypassing the
// builder. Used by tests.
func SetRetrievalService(svc driving.RetrievalService) {
	retrievalService = svc
	initialized = false
}

// Execute runs the root command. The context cancels long-running
// commands such as index --watch.
func Execute(ctx context.Context) error {
	defer closeService()
	return rootCmd.ExecuteContext(ctx)
}

// requireService returns the retrieval service, building it on first use.
func requireService() (driving.RetrievalService, error) {
	if retrievalService != nil {
		return retrievalService, nil
	}
	if serviceBuilder == nil {
		return nil, errors.New("retrieval service not configured")
	}

	svc, err := serviceBuilder()
	if err != nil {
		return nil, err
	}
	retrievalService = svc
	return svc, nil
}

// ensureInitialized opens the store once per invocation and surfaces
// the re-index warning when the embedding scheme changed.
func ensureInitialized(cmd *cobra.Command) (driving.RetrievalService, error) {
	svc, err := requireService()
	if err != nil {
		return nil, err
	}
	if initialized {
		return svc, nil
	}

	migrated, err := svc.Initialize(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	if migrated {
		cmd.PrintErrln("Embedding model changed: the store was cleared, re-index your courses.")
	}

	initialized = true
	return svc, nil
}

func closeService() {
	if retrievalService == nil {
		return
	}
	if err := retrievalService.Close(); err != nil {
		logger.Warn("Close failed: %v", err)
	}
}
