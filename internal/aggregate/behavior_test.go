package aggregate

import (
	"testing"
	"time"

	"pickstats/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledPost(uid string, minute int, side, majoritySide string, ratio float64, team string, win bool) models.SettledPost {
	return models.SettledPost{
		UID:           uid,
		League:        "kbo",
		PickSide:      side,
		PickTeamID:    team,
		MajoritySide:  majoritySide,
		MajorityRatio: ratio,
		IsWin:         win,
		Status:        models.StatusFinal,
		SettledAt:     time.Date(2026, 7, 1, 12, minute, 0, 0, time.UTC),
	}
}

func TestAggregateBehavior_Streak(t *testing.T) {
	// W W L W W W L -> maxWin 3, maxLose 1
	outcomes := []bool{true, true, false, true, true, true, false}
	var posts []models.SettledPost
	for i, win := range outcomes {
		posts = append(posts, settledPost("u1", i, models.SideHome, "", 0, "", win))
	}

	profiles := AggregateBehavior(posts)
	require.Contains(t, profiles, "u1")

	assert.Equal(t, 3, profiles["u1"].Streak.MaxWin)
	assert.Equal(t, 1, profiles["u1"].Streak.MaxLose)
}

func TestAggregateBehavior_StreakIgnoresInputOrder(t *testing.T) {
	// Same outcomes shuffled; sorting by settlement time restores the runs.
	posts := []models.SettledPost{
		settledPost("u1", 4, models.SideHome, "", 0, "", true),
		settledPost("u1", 0, models.SideHome, "", 0, "", true),
		settledPost("u1", 2, models.SideHome, "", 0, "", false),
		settledPost("u1", 1, models.SideHome, "", 0, "", true),
		settledPost("u1", 3, models.SideHome, "", 0, "", true),
	}

	profiles := AggregateBehavior(posts)

	assert.Equal(t, 2, profiles["u1"].Streak.MaxWin)
	assert.Equal(t, 1, profiles["u1"].Streak.MaxLose)
}

func TestAggregateBehavior_HomeAway(t *testing.T) {
	posts := []models.SettledPost{
		settledPost("u1", 0, models.SideHome, "", 0, "", true),
		settledPost("u1", 1, models.SideHome, "", 0, "", false),
		settledPost("u1", 2, models.SideAway, "", 0, "", true),
	}

	split := AggregateBehavior(posts)["u1"].HomeAway

	assert.Equal(t, 2, split.Home.Posts)
	assert.Equal(t, 1, split.Home.Wins)
	assert.InDelta(t, 0.5, split.Home.WinRate, 1e-9)
	assert.Equal(t, 1, split.Away.Posts)
	assert.InDelta(t, 1.0, split.Away.WinRate, 1e-9)
}

func TestAggregateBehavior_MarketBias(t *testing.T) {
	posts := []models.SettledPost{
		// Two favorite picks (pick matches majority side)
		settledPost("u1", 0, models.SideHome, models.SideHome, 0.8, "", true),
		settledPost("u1", 1, models.SideAway, models.SideAway, 0.6, "", false),
		// One underdog pick
		settledPost("u1", 2, models.SideHome, models.SideAway, 0.9, "", true),
		// No majority recorded: contributes to neither bucket
		settledPost("u1", 3, models.SideHome, "", 0, "", true),
	}

	p := AggregateBehavior(posts)["u1"]
	bias := p.MarketBias

	assert.Equal(t, 2, bias.FavoritePicks)
	assert.Equal(t, 1, bias.FavoriteWins)
	assert.InDelta(t, 0.5, bias.FavoriteWinRate, 1e-9)
	assert.Equal(t, 1, bias.UnderdogPicks)
	assert.Equal(t, 1, bias.UnderdogWins)
	assert.InDelta(t, 0.7, bias.AvgMajorityRatio, 1e-9) // (0.8+0.6)/2
	assert.InDelta(t, 2.0/3.0, p.FavoriteRatio(), 1e-9)
}

func TestAggregateBehavior_TeamAffinity(t *testing.T) {
	var posts []models.SettledPost
	minute := 0
	addTeam := func(team string, wins, losses int) {
		for i := 0; i < wins; i++ {
			posts = append(posts, settledPost("u1", minute, models.SideHome, "", 0, team, true))
			minute++
		}
		for i := 0; i < losses; i++ {
			posts = append(posts, settledPost("u1", minute, models.SideHome, "", 0, team, false))
			minute++
		}
	}

	addTeam("bears", 5, 0)   // 1.00 over 5
	addTeam("lions", 4, 1)   // 0.80 over 5
	addTeam("twins", 3, 2)   // 0.60 over 5
	addTeam("giants", 2, 3)  // 0.40 over 5
	addTeam("eagles", 0, 5)  // 0.00 over 5
	addTeam("wyverns", 4, 0) // only 4 posts: below the floor

	affinity := AggregateBehavior(posts)["u1"].Teams

	require.Len(t, affinity.Strong, 3)
	assert.Equal(t, "bears", affinity.Strong[0].TeamID)
	assert.Equal(t, "lions", affinity.Strong[1].TeamID)
	assert.Equal(t, "twins", affinity.Strong[2].TeamID)

	require.Len(t, affinity.Weak, 2)
	assert.Equal(t, "eagles", affinity.Weak[0].TeamID)
	assert.Equal(t, "giants", affinity.Weak[1].TeamID)

	// Strong and weak never intersect, and every listed team has >= 5 posts
	seen := map[string]bool{}
	for _, rec := range affinity.Strong {
		seen[rec.TeamID] = true
		assert.GreaterOrEqual(t, rec.Posts, 5)
	}
	for _, rec := range affinity.Weak {
		assert.False(t, seen[rec.TeamID], "weak list reuses %s", rec.TeamID)
		assert.GreaterOrEqual(t, rec.Posts, 5)
	}
}

func TestAggregateBehavior_SkipsUnsettled(t *testing.T) {
	posts := []models.SettledPost{
		{UID: "u1", PickSide: models.SideHome, Status: "pending", SettledAt: time.Now()},
	}

	profiles := AggregateBehavior(posts)
	assert.Empty(t, profiles)
}
