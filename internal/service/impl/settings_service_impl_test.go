package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mater/internal/domain"
)

func TestSettings_SeedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.settings.SeedDefaults(ctx))

	u, _ := f.signup(t, "s", "p")
	all, err := f.settings.ListVisible(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultSettings("Yes")))

	v, ok, err := f.settings.Get(ctx, "global_asset_status")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Yes", v)

	_, ok, err = f.settings.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettings_Permissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin, _ := f.signup(t, "admin", "p")
	alice, _ := f.signup(t, "alice", "p")
	bob, _ := f.signup(t, "bob", "p")

	_, err := f.settings.Add(ctx, alice, domain.AppSetting{Name: "service_status", Value: "Parked", Global: true})
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	global, err := f.settings.Add(ctx, admin, domain.AppSetting{Name: "service_status", Value: "Parked", Global: true})
	require.NoError(t, err)
	assert.Nil(t, global.UserID)

	own, err := f.settings.Add(ctx, alice, domain.AppSetting{Name: "theme", Value: "dark"})
	require.NoError(t, err)
	require.NotNil(t, own.UserID)
	assert.Equal(t, alice.ID, *own.UserID)

	assert.ErrorIs(t, f.settings.Update(ctx, bob, own.ID, "light"), domain.ErrSettingNotFound)
	assert.ErrorIs(t, f.settings.Update(ctx, alice, global.ID, "x"), domain.ErrNotAdmin)
	require.NoError(t, f.settings.Update(ctx, alice, own.ID, "light"))
	require.NoError(t, f.settings.Update(ctx, admin, global.ID, "Idle"))

	_, err = f.settings.Add(ctx, alice, domain.AppSetting{Name: " "})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	require.NoError(t, f.settings.Delete(ctx, own.ID))
	assert.ErrorIs(t, f.settings.Delete(ctx, own.ID), domain.ErrSettingNotFound)
}
