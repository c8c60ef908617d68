package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/enginedesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/enginedesk/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewSettingStore())
	require.NotNil(t, service)
}

func TestSettingsService_SetAndGet(t *testing.T) {
	ctx := context.Background()
	service := NewSettingsService(memory.NewSettingStore())

	require.NoError(t, service.Set(ctx, "theme", "dark"))
	value, err := service.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)

	require.NoError(t, service.Set(ctx, "theme", "light"))
	value, err = service.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)

	all, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingsService_Get_NotFound(t *testing.T) {
	service := NewSettingsService(memory.NewSettingStore())

	_, err := service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsService_Delete(t *testing.T) {
	ctx := context.Background()
	service := NewSettingsService(memory.NewSettingStore())

	// Unknown key is a no-op
	require.NoError(t, service.Delete(ctx, "missing"))

	require.NoError(t, service.Set(ctx, "theme", "dark"))
	require.NoError(t, service.Delete(ctx, "theme"))

	_, err := service.Get(ctx, "theme")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsService_All(t *testing.T) {
	ctx := context.Background()
	service := NewSettingsService(memory.NewSettingStore())

	require.NoError(t, service.Set(ctx, "theme", "dark"))
	require.NoError(t, service.Set(ctx, "language", "en"))

	all, err := service.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark", "language": "en"}, all)
}

func TestSettingsService_EmptyKey(t *testing.T) {
	ctx := context.Background()
	service := NewSettingsService(memory.NewSettingStore())

	tests := []struct {
		name string
		call func() error
	}{
		{"Set", func() error { return service.Set(ctx, "", "v") }},
		{"Get", func() error { _, err := service.Get(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_DeleteBlankKeyIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSettingStore()
	service := NewSettingsService(store)
	require.NoError(t, service.Set(ctx, "theme", "dark"))

	store.FailWith(errors.New("store must not be called"))
	assert.NoError(t, service.Delete(ctx, ""))
	assert.NoError(t, service.Delete(ctx, "  "))

	store.FailWith(nil)
	value, err := service.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestSettingsService_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSettingStore()
	service := NewSettingsService(store)
	boom := errors.New("disk full")

	store.FailWith(boom)

	assert.ErrorIs(t, service.Set(ctx, "theme", "dark"), boom)
	_, err := service.Get(ctx, "theme")
	assert.ErrorIs(t, err, boom)
	_, err = service.All(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, service.Delete(ctx, "theme"), boom)
}
