package listing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/cache"
)

type fakeStore struct {
	snapshot *Snapshot
	err      error
	loads    int
}

func (s *fakeStore) LoadSnapshot(context.Context) (*Snapshot, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

// memoryCache stores JSON like Redis would, so round trips are realistic
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return errors.New("redis: connection refused")
	}
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) InvalidateByPattern(context.Context, string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.data)
	c.data = make(map[string][]byte)
	return n, nil
}

func testSnapshot() *Snapshot {
	acme := uuid.New()
	orphan := uuid.New()
	return &Snapshot{
		Internships: []models.Internship{
			{ID: uuid.New(), CompanyID: acme, Title: "Backend Intern", Location: "Austin", Status: models.InternshipActive},
			{ID: uuid.New(), CompanyID: orphan, Title: "Full-Time Analyst", Location: "Remote", IsRemote: true, Status: models.InternshipActive},
			{ID: uuid.New(), CompanyID: acme, Title: "Draft Intern", Location: "Denver", Status: models.InternshipDraft},
		},
		CompanyNames: map[uuid.UUID]string{acme: "Acme"},
	}
}

func TestServiceListJoinsCompanyNames(t *testing.T) {
	svc := NewService(&fakeStore{snapshot: testSnapshot()}, nil, Options{})

	res, err := svc.List(context.Background(), Criteria{})
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)
	assert.Equal(t, "Acme", res.Items[0].CompanyName)
	assert.Equal(t, UnknownCompany, res.Items[1].CompanyName)
	assert.Equal(t, []string{"Austin", "Remote", "Denver"}, res.Facets.Locations)
}

func TestServiceListAppliesCriteriaAndVisibility(t *testing.T) {
	svc := NewService(&fakeStore{snapshot: testSnapshot()}, nil, Options{VisibleStatuses: []string{"active"}})

	res, err := svc.List(context.Background(), Criteria{JobType: "internship"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Backend Intern", res.Items[0].Title)
	assert.Equal(t, []string{"Austin", "Remote"}, res.Facets.Locations, "facets only show visible postings")
	assert.Equal(t, "internship", res.Criteria.JobType)
}

func TestServiceUsesCacheUntilInvalidated(t *testing.T) {
	store := &fakeStore{snapshot: testSnapshot()}
	c := newMemoryCache()
	svc := NewService(store, c, Options{CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := svc.List(ctx, Criteria{})
	require.NoError(t, err)
	second, err := svc.List(ctx, Criteria{RemoteOnly: true})
	require.NoError(t, err)

	assert.Equal(t, 1, store.loads)
	assert.Equal(t, 3, first.Total)
	require.Equal(t, 1, second.Total)
	assert.Equal(t, UnknownCompany, second.Items[0].CompanyName)

	svc.Invalidate(ctx)
	_, err = svc.List(ctx, Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads)
}

func TestServiceFallsBackWhenCacheFails(t *testing.T) {
	store := &fakeStore{snapshot: testSnapshot()}
	c := newMemoryCache()
	c.failGet = true
	svc := NewService(store, c, Options{CacheTTL: time.Minute})

	res, err := svc.List(context.Background(), Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, store.loads)
}

func TestServicePropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&fakeStore{err: boom}, nil, Options{})

	_, err := svc.List(context.Background(), Criteria{})
	assert.ErrorIs(t, err, boom)
}

func TestInvalidateOnNilService(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() { svc.Invalidate(context.Background()) })
}
