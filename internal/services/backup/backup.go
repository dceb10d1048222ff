// Package backup writes periodic CSV exports of every stored portfolio.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/findosh/folio/internal/models"
	"github.com/findosh/folio/internal/services/exporter"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.New()

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store is the part of the portfolio repository backups need
type Store interface {
	ListIDs() ([]string, error)
	GetByID(id string) (*models.Portfolio, error)
}

// Service exports portfolios to files
type Service struct {
	store       Store
	dir         string
	clock       models.Clock
	lookup      exporter.PriceLookup
	concurrency int
}

// NewService creates a backup service writing below dir. lookup may be nil,
// in which case exports use price overrides only.
func NewService(store Store, dir string, clock models.Clock, lookup exporter.PriceLookup) *Service {
	return &Service{store: store, dir: dir, clock: clock, lookup: lookup, concurrency: 4}
}

// Run exports every portfolio to <dir>/<portfolio id>/<export filename>
// and returns the paths written. The first failure cancels the rest.
func (s *Service) Run(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	paths := make([]string, len(ids))
	name := exporter.ExportFilename(s.clock.Now())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := s.writeOne(id, name)
			if err != nil {
				return fmt.Errorf("portfolio %s: %w", id, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithField("portfolios", len(paths)).Info("backup complete")
	return paths, nil
}

func (s *Service) writeOne(id, name string) (string, error) {
	p, err := s.store.GetByID(id)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(exporter.Export(p, s.lookup)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// Scheduler runs backups on a cron schedule
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers svc.Run under spec, which accepts standard five-field
// cron expressions and descriptors such as @daily.
func NewScheduler(svc *Service, spec string) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := svc.Run(context.Background()); err != nil {
			log.WithError(err).Error("scheduled backup failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start begins running scheduled backups in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running backup to finish
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
