package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateDailyStreak(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")

	r, err := f.engine.Streak.UpdateDailyStreak(f.ctx, uid)
	require.NoError(t, err)
	assert.True(t, r.StreakUpdated)
	assert.Equal(t, 1, r.StreakDays)
	require.NotNil(t, r.Reward)
	assert.Equal(t, 15, r.Reward.Coins)

	f.clock.Advance(2 * time.Hour)
	r, err = f.engine.Streak.UpdateDailyStreak(f.ctx, uid)
	require.NoError(t, err)
	assert.False(t, r.StreakUpdated, "a second login on the same day changes nothing")
	assert.Equal(t, 1, r.StreakDays)
	assert.Nil(t, r.Reward)

	f.clock.Advance(24 * time.Hour)
	r, err = f.engine.Streak.UpdateDailyStreak(f.ctx, uid)
	require.NoError(t, err)
	assert.True(t, r.StreakUpdated)
	assert.Equal(t, 2, r.StreakDays)

	f.clock.Advance(3 * 24 * time.Hour)
	r, err = f.engine.Streak.UpdateDailyStreak(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, r.StreakDays, "a gap restarts the streak")

	l := f.ledger(uid)
	assert.Equal(t, 1, l.StreakDays)
	require.NotNil(t, l.LastLogin)
	assert.True(t, l.LastLogin.Equal(f.clock.Now()))
	assert.Equal(t, 22+24+22, l.TotalXP)

	_, err = f.engine.Streak.UpdateDailyStreak(f.ctx, 4040)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSweepExpiredStreaks(t *testing.T) {
	f := newFixture(t)
	active := f.user("alice")
	lapsed := f.user("bob")

	_, err := f.engine.Streak.UpdateDailyStreak(f.ctx, lapsed)
	require.NoError(t, err)
	f.clock.Advance(2 * 24 * time.Hour)
	_, err = f.engine.Streak.UpdateDailyStreak(f.ctx, active)
	require.NoError(t, err)

	n, err := f.engine.Streak.SweepExpiredStreaks(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 0, f.ledger(lapsed).StreakDays)
	assert.Equal(t, 1, f.ledger(active).StreakDays)

	n, err = f.engine.Streak.SweepExpiredStreaks(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetStreak(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	_, err := f.engine.Streak.UpdateDailyStreak(f.ctx, uid)
	require.NoError(t, err)

	require.NoError(t, f.engine.Rewards.ResetStreak(f.ctx, uid))
	assert.Zero(t, f.ledger(uid).StreakDays)
}
