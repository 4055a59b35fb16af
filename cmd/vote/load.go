package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/loader"
)

// loadEnsemble opens path and decodes it as the legacy XGBoost binary
// dump when its extension is .bin or .model, and as the native JSON
// ensemble format otherwise (spec.md §6 describes both formats; the CLI,
// not the core, picks between them). The choice is made by extension
// only: a file whose JSON decode fails is not retried as XGBoost.
func loadEnsemble(path string) (*ensemble.Ensemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vote: opening model %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".bin") || strings.HasSuffix(path, ".model") {
		return loader.DecodeXGBoost(f)
	}
	return loader.DecodeJSON(f)
}

// loadDataset opens path and decodes it as the CSV dataset format
// (spec.md §6).
func loadDataset(path string) (*loader.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vote: opening dataset %s: %w", path, err)
	}
	defer f.Close()
	return loader.ReadCSV(f)
}
