// Command recall is a local semantic search engine for course materials.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/recall-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	"github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/openai"
	"github.com/recall-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/recall-labs/recall-cli/internal/adapters/driving/cli"
	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
	"github.com/recall-labs/recall-cli/internal/core/services"
	"github.com/recall-labs/recall-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)
	cli.SetServiceBuilder(func() (driving.RetrievalService, error) {
		return buildRetrievalService(configStore)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}

// buildRetrievalService wires the embedding provider, chunker and
// chunk store from configuration.
func buildRetrievalService(cfg driven.ConfigStore) (driving.RetrievalService, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	processor, err := registry.Build("chunker", map[string]any{
		"chunk_size": cfg.GetInt("chunker.chunk_size"),
		"overlap":    cfg.GetInt("chunker.overlap"),
	})
	if err != nil {
		return nil, fmt.Errorf("build chunker: %w", err)
	}

	dataDir := cli.DataDir()
	if dataDir == "" {
		dataDir = cfg.GetString("storage.data_dir")
	}

	schemeVersion, dimension := embedder.Scheme()
	store, err := sqlite.New(dataDir, domain.EmbeddingScheme{
		Version:   schemeVersion,
		Dimension: dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return services.NewRetrievalService(store, embedder, processor), nil
}

func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Version:    cfg.GetInt("embedding.version"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	case "openai":
		apiKey := cfg.GetString("embedding.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider needs an API key, run: recall config set-key")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Version:    cfg.GetInt("embedding.version"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want ollama or openai)", provider)
	}
}
