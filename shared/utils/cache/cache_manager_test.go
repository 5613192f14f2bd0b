package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilManagerIsDisabled(t *testing.T) {
	var cm *CacheManager
	ctx := context.Background()

	assert.ErrorIs(t, cm.SetJSON(ctx, "k", 1, time.Second), ErrDisabled)

	var out int
	assert.ErrorIs(t, cm.GetJSON(ctx, "k", &out), ErrDisabled)

	_, err := cm.InvalidateByPattern(ctx, "*")
	assert.ErrorIs(t, err, ErrDisabled)

	assert.ErrorIs(t, cm.Delete(ctx, "k"), ErrDisabled)
	assert.NoError(t, cm.Close())
	assert.Nil(t, cm.Client())
}

func TestManagerWithoutClientIsDisabled(t *testing.T) {
	cm := NewCacheManager(nil)
	assert.ErrorIs(t, cm.SetJSON(context.Background(), "k", "v", time.Second), ErrDisabled)
}
