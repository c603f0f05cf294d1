package main

import (
	"github.com/mhzhang/litshelf/internal/config"
	"github.com/mhzhang/litshelf/internal/extract"
)

// newExtractClient builds the LLM client from the environment and the global
// config. Exits with a config error when no API key is available.
func newExtractClient() *extract.Client {
	key, err := config.ResolveAPIKey()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	opts := []extract.Option{extract.WithAPIKey(key)}
	if url := config.GetBaseURL(); url != "" {
		opts = append(opts, extract.WithBaseURL(url))
	}
	if model := config.GetModel(); model != "" {
		opts = append(opts, extract.WithModel(model))
	}
	return extract.NewClient(opts...)
}
