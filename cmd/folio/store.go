package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/findosh/folio/internal/models"
	"github.com/google/uuid"
)

// loadPortfolio reads a JSON portfolio. A missing file yields a new empty
// portfolio so the first import can create it.
func loadPortfolio(file string, ids models.IDGenerator, clock models.Clock) (*models.Portfolio, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewPortfolio(ids, clock, uuid.Nil, "Portfolio"), nil
	}
	if err != nil {
		return nil, err
	}
	var p models.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	return &p, nil
}

func savePortfolio(file string, p *models.Portfolio) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

func readCSV(f interface{ Args() []string }) (string, error) {
	args := f.Args()
	if len(args) != 1 {
		return "", errors.New("expected exactly one CSV file argument")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
