package services

import (
	"sync"
	"testing"

	"wordquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizSuccessReward(t *testing.T) {
	tests := []struct {
		score int
		xp    int
		coins int
		badge string
	}{
		{score: 100, xp: 150, coins: 80, badge: "quiz_master_lvl_3"},
		{score: 95, xp: 150, coins: 80, badge: "quiz_master_lvl_3"},
		{score: 85, xp: 130, coins: 80, badge: "quiz_expert_lvl_3"},
		{score: 75, xp: 110, coins: 80, badge: "quiz_pro_lvl_3"},
		{score: 70, xp: 110, coins: 80, badge: "quiz_pass_lvl_3"},
	}
	for _, tt := range tests {
		g := QuizSuccessReward(3, tt.score)
		assert.Equal(t, tt.xp, g.XP, "score %d", tt.score)
		assert.Equal(t, tt.coins, g.Coins, "score %d", tt.score)
		assert.Equal(t, tt.badge, g.Badge, "score %d", tt.score)
		assert.Equal(t, models.RewardQuizSuccess, g.Type)
	}
}

func TestDailyStreakReward(t *testing.T) {
	g := DailyStreakReward(3)
	assert.Equal(t, 25, g.Coins)
	assert.Equal(t, 26, g.XP)

	g = DailyStreakReward(20)
	assert.Equal(t, 60, g.Coins, "the coin bonus is capped")
	assert.Equal(t, 60, g.XP)
}

func TestLevelRewards(t *testing.T) {
	c := LevelCompletionReward(3)
	assert.Equal(t, 150, c.XP)
	assert.Equal(t, 60, c.Coins)
	assert.Equal(t, "level_3_complete", c.Badge)

	u := LevelUnlockReward(3)
	assert.Equal(t, 50, u.XP)
	assert.Equal(t, 75, u.Coins)
	assert.Equal(t, "level_3_unlocked", u.Badge)

	m := WordMasteryReward(3, "apple")
	assert.Equal(t, 25, m.XP)
	assert.Equal(t, 15, m.Coins)
	assert.Empty(t, m.Badge)
}

func TestDeductCoins(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")

	ok, err := f.engine.Rewards.DeductCoins(f.ctx, uid, 10, "hint")
	require.NoError(t, err)
	assert.False(t, ok, "an empty ledger cannot pay")
	assert.Equal(t, 0, f.ledger(uid).Coins)

	_, err = f.engine.Rewards.AddCoins(f.ctx, uid, 30, "welcome")
	require.NoError(t, err)

	ok, err = f.engine.Rewards.DeductCoins(f.ctx, uid, 25, "hint")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, f.ledger(uid).Coins)

	ok, err = f.engine.Rewards.DeductCoins(f.ctx, uid, 6, "hint")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, f.ledger(uid).Coins)

	_, err = f.engine.Rewards.DeductCoins(f.ctx, uid, 0, "hint")
	assert.ErrorIs(t, err, ErrInvalidInput)

	history, err := f.engine.Rewards.GetHistory(f.ctx, uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.RewardCoinSpend, history[0].RewardType)
	assert.Equal(t, -25, history[0].Coins)
	assert.Equal(t, 30, history[0].CoinsBefore)
	assert.Equal(t, 5, history[0].CoinsAfter)
	assert.Equal(t, models.RewardAdminCredit, history[1].RewardType)
}

func TestConcurrentDeductionsNeverOverspend(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	_, err := f.engine.Rewards.AddCoins(f.ctx, uid, 50, "")
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.engine.Rewards.DeductCoins(f.ctx, uid, 10, "race")
			if !assert.NoError(t, err) {
				return
			}
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, f.ledger(uid).Coins)
}

func TestAdminCredits(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")

	g, err := f.engine.Rewards.AddXP(f.ctx, uid, 40, "contest")
	require.NoError(t, err)
	assert.Equal(t, 40, g.TotalXP)
	assert.Equal(t, "Administrative credit: contest", g.Message)

	_, err = f.engine.Rewards.AddCoins(f.ctx, uid, -5, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.Rewards.AddCoins(f.ctx, 999, 5, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetSummary(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")

	s, err := f.engine.Rewards.GetSummary(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentLevel)
	assert.Zero(t, s.TotalXP)
	assert.Empty(t, s.Badges)

	f.passLevel(uid, 1, f.words(1, 2, 10), f.questions(1, 2))
	s, err = f.engine.Rewards.GetSummary(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 200, s.TotalXP)
	assert.Equal(t, 80, s.Coins)
	require.Len(t, s.Badges, 2)
	badges := []string{s.Badges[0].Badge, s.Badges[1].Badge}
	assert.ElementsMatch(t, []string{"level_1_complete", "quiz_master_lvl_1"}, badges)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	bob := f.user("bob")
	f.user("carol")

	_, err := f.engine.Rewards.AddXP(f.ctx, alice, 30, "")
	require.NoError(t, err)
	_, err = f.engine.Rewards.AddXP(f.ctx, bob, 90, "")
	require.NoError(t, err)

	board, err := f.engine.Rewards.Leaderboard(f.ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, LeaderboardEntry{Rank: 1, UserID: bob, Username: "bob", Value: 90}, board[0])
	assert.Equal(t, LeaderboardEntry{Rank: 2, UserID: alice, Username: "alice", Value: 30}, board[1])

	f.passLevel(alice, 1, f.words(1, 2, 10), f.questions(1, 2))
	board, err = f.engine.Rewards.Leaderboard(f.ctx, LeaderboardLevels, 5)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, alice, board[0].UserID)
	assert.Equal(t, 1, board[0].Value)

	_, err = f.engine.Rewards.Leaderboard(f.ctx, "coins", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
