package main

import (
	"fmt"
	"os"

	"github.com/nhle/kaneo-sync/internal/model"
)

// version is set at build time via -ldflags.
var version = "dev"

const configPathEnvKey = "KANEO_SYNC_CONFIG"

func main() {
	path := os.Getenv(configPathEnvKey)
	if path == "" {
		path = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg, path).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
