package services

import (
	"context"
	"fmt"
	"strings"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/locks"
	"journeycompass/internal/repositories"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CatalogService owns the bus list stored in the document.
type CatalogService struct {
	Repo    repositories.DocumentRepo
	Locker  locks.Locker
	LockKey string
	Log     *zap.Logger
}

func (s CatalogService) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// SeedIfEmpty writes the catalog once, only when the store has no buses and
// the catalog is non-empty. It reports whether a write happened.
func (s CatalogService) SeedIfEmpty(ctx context.Context, catalog []models.Bus) (bool, error) {
	if len(catalog) == 0 {
		return false, nil
	}
	if err := ValidateCatalog(catalog); err != nil {
		return false, err
	}

	seeded := false
	err := withDocumentLock(ctx, s.Locker, s.LockKey, func() error {
		doc, err := s.Repo.LoadForWrite(ctx)
		if err != nil {
			return err
		}
		if len(doc.Buses) > 0 {
			return nil
		}
		doc.Buses = append([]models.Bus(nil), catalog...)
		if err := s.Repo.Persist(ctx, doc); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		s.log().Info("catalog seeded", zap.Int("buses", len(catalog)))
	}
	return seeded, nil
}

// GetBuses returns the stored catalog, seeding it from fallback on first use.
func (s CatalogService) GetBuses(ctx context.Context, fallback []models.Bus) []models.Bus {
	doc := s.Repo.Load(ctx)
	if len(doc.Buses) > 0 {
		return doc.Buses
	}
	if _, err := s.SeedIfEmpty(ctx, fallback); err != nil {
		s.log().Warn("catalog seed failed", zap.Error(err))
	}
	if fallback == nil {
		return []models.Bus{}
	}
	return fallback
}

// SetBuses replaces the stored catalog.
func (s CatalogService) SetBuses(ctx context.Context, buses []models.Bus) error {
	if err := ValidateCatalog(buses); err != nil {
		return err
	}
	return withDocumentLock(ctx, s.Locker, s.LockKey, func() error {
		doc, err := s.Repo.LoadForWrite(ctx)
		if err != nil {
			return err
		}
		doc.Buses = append([]models.Bus{}, buses...)
		return s.Repo.Persist(ctx, doc)
	})
}

// FindBus looks a bus up in the catalog.
func (s CatalogService) FindBus(ctx context.Context, id string, fallback []models.Bus) (models.Bus, error) {
	id = strings.TrimSpace(id)
	bus, ok := lo.Find(s.GetBuses(ctx, fallback), func(b models.Bus) bool { return b.ID == id })
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	return bus, nil
}

// SearchBuses filters the catalog by route, case-insensitively. An empty
// origin or destination returns every bus.
func (s CatalogService) SearchBuses(ctx context.Context, from, to string, fallback []models.Bus) []models.Bus {
	buses := s.GetBuses(ctx, fallback)
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return buses
	}
	return lo.Filter(buses, func(b models.Bus, _ int) bool {
		return strings.EqualFold(strings.TrimSpace(b.From), from) &&
			strings.EqualFold(strings.TrimSpace(b.To), to)
	})
}

// ValidateCatalog rejects buses the ledger could not book against.
func ValidateCatalog(buses []models.Bus) error {
	seen := make(map[string]struct{}, len(buses))
	for i, b := range buses {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return domain.ValidationError{Field: "buses", Msg: fmt.Sprintf("bus #%d has no id", i+1)}
		}
		if _, dup := seen[id]; dup {
			return domain.ValidationError{Field: "buses", Msg: fmt.Sprintf("duplicate bus id %s", id)}
		}
		seen[id] = struct{}{}
		if b.TotalSeats <= 0 {
			return domain.ValidationError{Field: "buses", Msg: fmt.Sprintf("bus %s must have seats", id)}
		}
		if b.Price <= 0 {
			return domain.ValidationError{Field: "buses", Msg: fmt.Sprintf("bus %s must have a fare", id)}
		}
	}
	return nil
}
