package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/utils/cache"
	"placify-backend/shared/utils/query"
)

type fakeStore struct {
	stats      Stats
	statsCalls int
	companies  []models.Company
	err        error
}

func (s *fakeStore) Universities(context.Context, query.ListParams) ([]models.University, int64, error) {
	return nil, 0, s.err
}

func (s *fakeStore) Companies(_ context.Context, p query.ListParams) ([]models.Company, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	end := p.Offset() + p.Limit
	if end > len(s.companies) {
		end = len(s.companies)
	}
	return s.companies[p.Offset():end], int64(len(s.companies)), nil
}

func (s *fakeStore) Stats(context.Context) (*Stats, error) {
	s.statsCalls++
	if s.err != nil {
		return nil, s.err
	}
	st := s.stats
	return &st, nil
}

type mapCache map[string]Stats

func (c mapCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	v, ok := c[key]
	if !ok {
		return cache.ErrMiss
	}
	*dst.(*Stats) = v
	return nil
}

func (c mapCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	c[key] = *v.(*Stats)
	return nil
}

func TestStatsAreCached(t *testing.T) {
	store := &fakeStore{stats: Stats{TotalInternships: 7, TotalCompanies: 3, ActiveInternships: 4}}
	svc := NewService(store, mapCache{}, time.Minute)
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	second, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(4), second.ActiveInternships)
	assert.Equal(t, 1, store.statsCalls)
}

func TestStatsWithoutCache(t *testing.T) {
	store := &fakeStore{stats: Stats{TotalCompanies: 1}}
	svc := NewService(store, nil, 0)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.statsCalls)
}

func TestCompaniesPagination(t *testing.T) {
	store := &fakeStore{companies: []models.Company{{Name: "A"}, {Name: "B"}, {Name: "C"}}}
	svc := NewService(store, nil, 0)

	list, page, err := svc.Companies(context.Background(), query.ListParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestStoreErrorsBecomeInternal(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("db down")}, nil, 0)

	_, _, err := svc.Universities(context.Background(), query.ListParams{Page: 1, Limit: 10})
	assert.True(t, apperrors.Is(err, apperrors.CodeInternal))
	_, err = svc.Stats(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.CodeInternal))
}
