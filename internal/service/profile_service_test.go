package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-stream-core/internal/domain"
)

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	v, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, uid, v.UserID)
	assert.Equal(t, domain.UserListener, v.UserType)
	require.NotNil(t, v.Premium)
	assert.Equal(t, domain.PremiumNone, v.Premium.PremiumType)

	_, err = f.profiles.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserMissing)
}

func TestGetProfileWithoutProfileRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	require.NoError(t, f.run.DB(ctx).Where("user_id = ?", uid).Delete(&domain.Profile{}).Error)

	_, err := f.profiles.GetProfile(ctx, uid)
	assert.ErrorIs(t, err, domain.ErrProfileMissing)
}

func TestChangeProfilePartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{
		Username: domain.Some("ann"),
		Country:  domain.Some("Germany"),
		Birthday: domain.Some("1999-04-12"),
	}))
	v, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, v.Username)
	assert.Equal(t, "ann", *v.Username)
	require.NotNil(t, v.Country)
	assert.Equal(t, domain.Country("Germany"), *v.Country)
	require.NotNil(t, v.Birthday)
	assert.Equal(t, "1999-04-12", time.Time(*v.Birthday).Format(time.DateOnly))

	// absent fields are left alone
	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{Username: domain.Some("annie")}))
	v, err = f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "annie", *v.Username)
	require.NotNil(t, v.Country)
	assert.Equal(t, domain.Country("Germany"), *v.Country)

	// empty string clears a nullable field
	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{Country: domain.Some("")}))
	v, err = f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, v.Country)
	assert.Equal(t, "annie", *v.Username)
}

func TestChangeProfileRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	f.register(t, "bob@example.com")

	cases := []struct {
		name  string
		uid   string
		patch domain.ProfilePatch
		want  error
	}{
		{"bad country", uid, domain.ProfilePatch{Country: domain.Some("Atlantis")}, domain.ErrMalformedEnum},
		{"bad birthday", uid, domain.ProfilePatch{Birthday: domain.Some("12/04/1999")}, domain.ErrMalformedDate},
		{"bad email", uid, domain.ProfilePatch{Email: domain.Some("nope")}, domain.ErrMalformedEmail},
		{"email taken", uid, domain.ProfilePatch{Email: domain.Some("bob@example.com")}, domain.ErrEmailTaken},
		{"missing user", "ghost", domain.ProfilePatch{Username: domain.Some("x")}, domain.ErrUserMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.profiles.ChangeProfile(ctx, tc.uid, tc.patch)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// a rejected patch leaves nothing behind
	v, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, v.Country)
	assert.Nil(t, v.Birthday)
}

func TestChangeProfileEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{Email: domain.Some("ann@new.example.com")}))
	_, err := f.users.Authenticate(ctx, "ann@new.example.com", "secret-1")
	assert.NoError(t, err)

	// same address is not a conflict with itself
	assert.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{Email: domain.Some("ann@new.example.com")}))
}

func TestParseBirthday(t *testing.T) {
	d, err := ParseBirthday("2001-02-03T10:11:12+05:00")
	require.NoError(t, err)
	assert.Equal(t, "2001-02-03", time.Time(d).Format(time.DateOnly))

	_, err = ParseBirthday("2001-13-40")
	assert.ErrorIs(t, err, domain.ErrMalformedDate)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	err := f.profiles.ChangePassword(ctx, uid, "wrong", "next-pass")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	err = f.profiles.ChangePassword(ctx, uid, "secret-1", "")
	assert.ErrorIs(t, err, domain.ErrMalformedPassword)

	err = f.profiles.ChangePassword(ctx, "ghost", "secret-1", "next-pass")
	assert.ErrorIs(t, err, domain.ErrUserMissing)

	require.NoError(t, f.profiles.ChangePassword(ctx, uid, "secret-1", "next-pass"))
	_, err = f.users.Authenticate(ctx, "ann@example.com", "secret-1")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
	_, err = f.users.Authenticate(ctx, "ann@example.com", "next-pass")
	assert.NoError(t, err)
}

func TestChangePremium(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	require.NoError(t, f.profiles.ChangePremium(ctx, uid, domain.PremiumStudent))
	p, err := f.profiles.GetUserPremium(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, domain.PremiumStudent, p.PremiumType)

	err = f.profiles.ChangePremium(ctx, uid, domain.PremiumStudent)
	assert.ErrorIs(t, err, domain.ErrDuplicatePremiumTier)

	err = f.profiles.ChangePremium(ctx, uid, domain.PremiumType("platinum"))
	assert.ErrorIs(t, err, domain.ErrMalformedEnum)

	err = f.profiles.ChangePremium(ctx, "ghost", domain.PremiumFamily)
	assert.ErrorIs(t, err, domain.ErrUserMissing)

	// the profile view reflects the new tier
	v, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, domain.PremiumStudent, v.Premium.PremiumType)
}

func TestChangePremiumConcurrentSameTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.profiles.ChangePremium(ctx, uid, domain.PremiumDuo)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicatePremiumTier)
	}
	assert.Equal(t, 1, ok)
}

func TestGetAvailablePremiums(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	got, err := f.profiles.GetAvailablePremiums(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []domain.PremiumType{
		domain.PremiumIndividual, domain.PremiumStudent, domain.PremiumDuo, domain.PremiumFamily,
	}, got)

	require.NoError(t, f.profiles.ChangePremium(ctx, uid, domain.PremiumDuo))
	got, err = f.profiles.GetAvailablePremiums(ctx, uid)
	require.NoError(t, err)
	assert.NotContains(t, got, domain.PremiumDuo)
	assert.Contains(t, got, domain.PremiumNone)
	assert.Len(t, got, len(domain.AllPremiumTypes)-1)

	_, err = f.profiles.GetAvailablePremiums(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserMissing)
}

func TestPremiumUpgradeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "u1@example.com")

	require.NoError(t, f.profiles.ChangePremium(ctx, uid, domain.PremiumIndividual))
	p, err := f.profiles.GetUserPremium(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, domain.PremiumIndividual, p.PremiumType)

	got, err := f.profiles.GetAvailablePremiums(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []domain.PremiumType{
		domain.PremiumNone, domain.PremiumStudent, domain.PremiumDuo, domain.PremiumFamily,
	}, got)
}

func TestChangeUsernameKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{
		Country:  domain.Some("Brazil"),
		Birthday: domain.Some("1990-06-30"),
	}))
	before, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)

	require.NoError(t, f.profiles.ChangeProfile(ctx, uid, domain.ProfilePatch{Username: domain.Some("X")}))
	after, err := f.profiles.GetProfile(ctx, uid)
	require.NoError(t, err)

	assert.Equal(t, "X", *after.Username)
	after.Username = before.Username
	assert.Equal(t, before, after)
}

func TestFailedPasswordChangeKeepsHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	before, err := f.users.Get(ctx, uid)
	require.NoError(t, err)
	require.ErrorIs(t, f.profiles.ChangePassword(ctx, uid, "bad", "new-pass"), domain.ErrWrongPassword)
	after, err := f.users.Get(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, before.User.PasswordHash, after.User.PasswordHash)
}
