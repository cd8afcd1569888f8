package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-stream-core/internal/core/cache"
	"music-stream-core/internal/domain"
)

func newRedisFixture(t *testing.T) (*fixture, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0, "test:")
	t.Cleanup(func() { _ = c.Close() })
	return newCachedFixture(t, c), mr
}

func cachedKey(userID string) string { return "test:" + profileKey(userID) }

func TestGetProfileReadsThroughCache(t *testing.T) {
	f, mr := newRedisFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{
		Username: domain.Some("ann"),
		Country:  domain.Some("Brazil"),
		Birthday: domain.Some("1990-06-30"),
	}))
	assert.False(t, mr.Exists(cachedKey(uid)))

	first, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cachedKey(uid)))

	// bypass the service so only a cache hit can return the old country
	require.NoError(t, f.run.DB(ctx).Model(&domain.Profile{}).
		Where("user_id = ?", uid).Update("country", nil).Error)

	second, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, second.Country)
	assert.Equal(t, domain.CountryBrazil, *second.Country)
	require.NotNil(t, second.Username)
	assert.Equal(t, "ann", *second.Username)
	require.NotNil(t, second.Birthday)
	assert.Equal(t, "1990-06-30", time.Time(*second.Birthday).Format(time.DateOnly))
	require.NotNil(t, second.Premium)
	assert.Equal(t, first.Premium.PremiumType, second.Premium.PremiumType)
	assert.Equal(t, first.UserType, second.UserType)
}

func TestProfileWritesEvictCache(t *testing.T) {
	f, mr := newRedisFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	_, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.True(t, mr.Exists(cachedKey(uid)))

	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{Username: domain.Some("annie")}))
	assert.False(t, mr.Exists(cachedKey(uid)))
	v, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, v.Username)
	assert.Equal(t, "annie", *v.Username)

	require.NoError(t, f.profiles.ChangePremium(ctx, uid, domain.PremiumStudent))
	assert.False(t, mr.Exists(cachedKey(uid)))
	v, err = f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, v.Premium)
	assert.Equal(t, domain.PremiumStudent, v.Premium.PremiumType)
}

func TestDeletedUserProfileNotServedFromCache(t *testing.T) {
	f, mr := newRedisFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	_, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.True(t, mr.Exists(cachedKey(uid)))

	require.NoError(t, f.users.Delete(ctx, uid))
	assert.False(t, mr.Exists(cachedKey(uid)))

	_, err = f.profiles.GetProfile(ctx, uid)
	assert.ErrorIs(t, err, domain.ErrUserMissing)
	assert.False(t, mr.Exists(cachedKey(uid)))
}
