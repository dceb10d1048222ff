package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/findosh/folio/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func init() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	SetLogger(quiet)
}

type memStore struct {
	portfolios map[string]*models.Portfolio
	failOn     string
}

func (m *memStore) ListIDs() ([]string, error) {
	ids := make([]string, 0, len(m.portfolios))
	for id := range m.portfolios {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) GetByID(id string) (*models.Portfolio, error) {
	if id == m.failOn {
		return nil, errors.New("boom")
	}
	return m.portfolios[id], nil
}

func portfolio(id, symbol string) *models.Portfolio {
	return &models.Portfolio{ID: id, Accounts: []*models.Account{
		{Name: "ISA", Type: models.AccountTypeISA, Positions: []*models.Position{
			{Symbol: symbol, Name: symbol, Units: decimal.NewFromInt(2), Currency: "GBP", AssetType: models.AssetTypeETF},
		}},
	}}
}

func TestService_Run(t *testing.T) {
	dir := t.TempDir()
	store := &memStore{portfolios: map[string]*models.Portfolio{
		"pf-1": portfolio("pf-1", "VWRL.L"),
		"pf-2": portfolio("pf-2", "VUSA.L"),
	}}

	paths, err := NewService(store, dir, models.FixedClock(testNow), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 files, got %v", paths)
	}

	data, err := os.ReadFile(filepath.Join(dir, "pf-2", "portfolio-export-2026-03-14.csv"))
	if err != nil {
		t.Fatalf("Expected backup file: %v", err)
	}
	if !strings.Contains(string(data), "VUSA.L") {
		t.Errorf("Expected VUSA.L in backup, got %s", data)
	}
}

func TestService_RunFailure(t *testing.T) {
	store := &memStore{
		portfolios: map[string]*models.Portfolio{"pf-1": portfolio("pf-1", "A"), "bad": nil},
		failOn:     "bad",
	}

	_, err := NewService(store, t.TempDir(), models.FixedClock(testNow), nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "portfolio bad") {
		t.Errorf("Expected failure naming the portfolio, got %v", err)
	}
}

func TestNewScheduler(t *testing.T) {
	svc := NewService(&memStore{}, t.TempDir(), models.FixedClock(testNow), nil)

	if _, err := NewScheduler(svc, "not a schedule"); err == nil {
		t.Error("Expected invalid schedule to be rejected")
	}

	s, err := NewScheduler(svc, "@daily")
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
