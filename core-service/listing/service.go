package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"placify-backend/shared/database/models"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/utils/cache"
)

const (
	snapshotKey     = "listing:snapshot:v1"
	snapshotPattern = "listing:*"

	UnknownCompany = "Unknown Company"
)

// Snapshot is the unfiltered catalogue, newest first, plus company names for display
type Snapshot struct {
	Internships  []models.Internship  `json:"internships"`
	CompanyNames map[uuid.UUID]string `json:"company_names"`
}

// Store loads the catalogue from persistence
type Store interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Cache is the subset of cache.CacheManager the listing needs
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	InvalidateByPattern(ctx context.Context, pattern string) (int, error)
}

// Item is an internship decorated with its company name
type Item struct {
	models.Internship
	CompanyName string `json:"company_name"`
}

type Result struct {
	Items    []Item   `json:"items"`
	Total    int      `json:"total"`
	Facets   Facets   `json:"facets"`
	Criteria Criteria `json:"criteria"`
}

type Service struct {
	store      Store
	cache      Cache
	engine     Engine
	visibility Visibility
	ttl        time.Duration
}

type Options struct {
	Mode            JobTypeMode
	VisibleStatuses []string
	CacheTTL        time.Duration
}

// NewService wires the engine to a store. cache may be nil.
func NewService(store Store, c Cache, opts Options) *Service {
	return &Service{
		store:      store,
		cache:      c,
		engine:     NewEngine(opts.Mode),
		visibility: NewVisibility(opts.VisibleStatuses),
		ttl:        opts.CacheTTL,
	}
}

// List returns the visible internships matching criteria, in catalogue order
func (s *Service) List(ctx context.Context, criteria Criteria) (*Result, error) {
	snapshot, source, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	visible := s.visibility.Apply(snapshot.Internships)
	matched := s.engine.Filter(visible, criteria)

	items := make([]Item, len(matched))
	for i, internship := range matched {
		name, ok := snapshot.CompanyNames[internship.CompanyID]
		if !ok || name == "" {
			name = UnknownCompany
		}
		items[i] = Item{Internship: internship, CompanyName: name}
	}

	metrics.RecordListing(!criteria.IsEmpty(), source, len(items))

	return &Result{
		Items:    items,
		Total:    len(items),
		Facets:   BuildFacets(visible),
		Criteria: criteria,
	}, nil
}

func (s *Service) snapshot(ctx context.Context) (*Snapshot, string, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		var cached Snapshot
		err := s.cache.GetJSON(ctx, snapshotKey, &cached)
		if err == nil {
			return &cached, "cache", nil
		}
		if !errors.Is(err, cache.ErrMiss) && !errors.Is(err, cache.ErrDisabled) {
			log.Warn("listing cache read failed", zap.Error(err))
		}
	}

	snapshot, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load listing snapshot: %w", err)
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, snapshotKey, snapshot, s.ttl); err != nil && !errors.Is(err, cache.ErrDisabled) {
			log.Warn("listing cache write failed", zap.Error(err))
		}
	}
	return snapshot, "database", nil
}

// Invalidate drops cached listing data after an internship or company changes
func (s *Service) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	if _, err := s.cache.InvalidateByPattern(ctx, snapshotPattern); err != nil && !errors.Is(err, cache.ErrDisabled) {
		logger.FromContext(ctx).Warn("listing cache invalidation failed", zap.Error(err))
	}
}

// GormStore reads the catalogue with gorm
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var internships []models.Internship
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&internships).Error; err != nil {
		return nil, fmt.Errorf("load internships: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(internships))
	seen := make(map[uuid.UUID]struct{})
	for _, i := range internships {
		if _, ok := seen[i.CompanyID]; !ok {
			seen[i.CompanyID] = struct{}{}
			ids = append(ids, i.CompanyID)
		}
	}

	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) > 0 {
		var companies []models.Company
		if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&companies).Error; err != nil {
			return nil, fmt.Errorf("load companies: %w", err)
		}
		for _, c := range companies {
			names[c.ID] = c.Name
		}
	}

	return &Snapshot{Internships: internships, CompanyNames: names}, nil
}
