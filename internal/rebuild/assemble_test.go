package rebuild

import (
	"testing"
	"time"

	"pickstats/rankings/internal/aggregate"
	"pickstats/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rebuiltAt = time.Date(2026, 8, 1, 5, 0, 0, 0, time.UTC)

func cohortFixture() map[string]*aggregate.Accumulator {
	return map[string]*aggregate.Accumulator{
		"alice": {
			UID: "alice", Posts: 20, Wins: 14, BrierSum: 3.0, PrecisionSum: 160,
			UpsetHit: 4, UpsetOpportunity: 8,
			LeaguePosts: map[string]int{"kbo": 15, "mlb": 5},
		},
		"bob": {
			UID: "bob", Posts: 10, Wins: 4, BrierSum: 4.0, PrecisionSum: 60,
			UpsetHit: 1, UpsetOpportunity: 3, // below the gate
			LeaguePosts: map[string]int{"kbo": 10},
		},
		"carol": {
			UID: "carol", Posts: 4, Wins: 3, BrierSum: 0.4, PrecisionSum: 40,
			LeaguePosts: map[string]int{"mlb": 4},
		},
	}
}

func TestBuildMonthlyStats(t *testing.T) {
	accs := cohortFixture()
	classifier := aggregate.NewRuleTableClassifier()

	stats := BuildMonthlyStats(accs, nil, classifier, "2026-07", rebuiltAt)
	require.Len(t, stats, 3)

	// Output is uid-sorted
	assert.Equal(t, "alice", stats[0].UID)
	assert.Equal(t, "bob", stats[1].UID)
	assert.Equal(t, "carol", stats[2].UID)

	alice := stats[0]
	assert.Equal(t, "alice_2026-07", alice.DocID)
	assert.Equal(t, "2026-07", alice.PeriodID)
	assert.Equal(t, "kbo", alice.MainLeague)
	assert.InDelta(t, 0.7, alice.Raw.WinRate, 1e-9)
	assert.InDelta(t, 0.85, alice.Raw.Accuracy, 1e-9)
	assert.InDelta(t, 0.5, alice.Raw.AvgUpset, 1e-9)

	// bob is under five upset opportunities
	assert.Zero(t, stats[1].Raw.AvgUpset)

	// winRate cohort is [0.4, 0.7, 0.75]: alice ranks (1+0.5)/3 -> 50
	assert.Equal(t, 50, alice.Percentiles.WinRate)

	// kbo volume cohort is [10, 15]: alice's 15 ranks (1+0.5)/2 -> 75
	assert.Equal(t, 75, alice.Percentiles.LeagueVolume)
	// bob's 10 ranks (0+0.5)/2 -> 25
	assert.Equal(t, 25, stats[1].Percentiles.LeagueVolume)
	// carol ranks in the mlb cohort [4, 5], not the kbo one
	assert.Equal(t, 25, stats[2].Percentiles.LeagueVolume)

	// No behavior profile: zero-valued splits and streaks, never nil panics
	assert.Zero(t, alice.Streak.MaxWin)
	assert.Empty(t, alice.Teams.Strong)
	assert.NotEmpty(t, alice.AnalysisTypeID)
}

func TestBuildMonthlyStats_Idempotent(t *testing.T) {
	classifier := aggregate.NewRuleTableClassifier()

	first := BuildMonthlyStats(cohortFixture(), nil, classifier, "2026-07", rebuiltAt)
	second := BuildMonthlyStats(cohortFixture(), nil, classifier, "2026-07", rebuiltAt)

	// Unchanged inputs produce identical documents
	assert.Equal(t, first, second)
}

func TestBuildMonthlyStats_MergesBehavior(t *testing.T) {
	accs := map[string]*aggregate.Accumulator{
		"alice": {
			UID: "alice", Posts: 10, Wins: 9, BrierSum: 1.0, PrecisionSum: 100,
			LeaguePosts: map[string]int{"kbo": 10},
		},
	}

	posts := []models.SettledPost{
		{UID: "alice", PickSide: models.SideHome, MajoritySide: models.SideHome, MajorityRatio: 0.8,
			IsWin: true, Status: models.StatusFinal, SettledAt: rebuiltAt},
		{UID: "alice", PickSide: models.SideAway, MajoritySide: models.SideHome, MajorityRatio: 0.7,
			IsWin: false, Status: models.StatusFinal, SettledAt: rebuiltAt.Add(time.Hour)},
	}
	behaviors := aggregate.AggregateBehavior(posts)

	stats := BuildMonthlyStats(accs, behaviors, aggregate.NewRuleTableClassifier(), "2026-07", rebuiltAt)
	require.Len(t, stats, 1)

	assert.Equal(t, 1, stats[0].MarketBias.FavoritePicks)
	assert.Equal(t, 1, stats[0].MarketBias.UnderdogPicks)
	assert.Equal(t, 1, stats[0].HomeAway.Home.Posts)
	assert.Equal(t, 1, stats[0].Streak.MaxWin)
	assert.Equal(t, 1, stats[0].Streak.MaxLose)
}

func TestBuildGlobalStat(t *testing.T) {
	mkStat := func(uid string, posts int, winRate, accuracy float64) models.MonthlyUserStat {
		return models.MonthlyUserStat{
			UID: uid,
			Raw: models.RawStats{Posts: posts, WinRate: winRate, Accuracy: accuracy},
		}
	}

	stats := []models.MonthlyUserStat{
		mkStat("a", 20, 0.8, 0.5), // eligible; tops winRate
		mkStat("b", 15, 0.4, 0.9), // eligible; tops accuracy
		mkStat("c", 10, 0.6, 0.6), // eligible
		mkStat("d", 3, 1.0, 1.0),  // below threshold: excluded from deciles
	}

	g := BuildGlobalStat(stats, 200, 30, "2026-07", rebuiltAt)

	assert.Equal(t, "2026-07", g.PeriodID)
	assert.Equal(t, 4, g.CohortSize)
	assert.Equal(t, 3, g.EligibleCount)
	assert.InDelta(t, 0.7, g.Average.WinRate, 1e-9)   // mean of all four
	assert.InDelta(t, 0.75, g.Average.Accuracy, 1e-9) // mean of all four
	assert.InDelta(t, 0.15, g.UpsetRate, 1e-9)
	assert.Equal(t, 200, g.SettledGames)
	assert.Equal(t, 30, g.UpsetGames)

	// ceil(3*0.1) = 1: the decile is the single best eligible user per
	// metric, and different users can top different metrics.
	assert.InDelta(t, 0.8, g.TopDecile.WinRate, 1e-9)  // a, not d
	assert.InDelta(t, 0.9, g.TopDecile.Accuracy, 1e-9) // b
}

func TestBuildGlobalStat_Empty(t *testing.T) {
	g := BuildGlobalStat(nil, 0, 0, "2026-07", rebuiltAt)

	assert.Zero(t, g.CohortSize)
	assert.Zero(t, g.UpsetRate)
	assert.Zero(t, g.Average.WinRate)
}

func TestBuildLeaderboardRows(t *testing.T) {
	accs := map[string]*aggregate.Accumulator{
		"alice": {UID: "alice", Posts: 12, Wins: 9, BrierSum: 2.0, PrecisionSum: 96},
		"bob":   {UID: "bob", Posts: 8, Wins: 6, BrierSum: 1.0, PrecisionSum: 64},
		"carol": {UID: "carol", Posts: 4, Wins: 4, BrierSum: 0.2, PrecisionSum: 40}, // under the gate
	}

	rows := BuildLeaderboardRows(accs, "week_kbo_2026-W30", WeeklyBoardMinPosts)
	require.Len(t, rows, 2)

	// carol would top every metric but never appears below the post gate
	for _, row := range rows {
		assert.NotEqual(t, "carol", row.UID)
		assert.GreaterOrEqual(t, row.Posts, WeeklyBoardMinPosts)
	}

	// 9/12 = 0.75 equals 6/8; accuracy breaks the tie in bob's favor
	assert.Equal(t, "bob", rows[0].UID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "alice", rows[1].UID)
	assert.Equal(t, 2, rows[1].Rank)

	assert.Equal(t, "week_kbo_2026-W30", rows[0].BoardID)
	assert.InDelta(t, 10.0/14.0, rows[1].Consistency, 1e-9) // (9+1)/(12+2)
}

func TestBuildLeaderboardRows_MonthlyGate(t *testing.T) {
	accs := map[string]*aggregate.Accumulator{
		"alice": {UID: "alice", Posts: 9, Wins: 9},
		"bob":   {UID: "bob", Posts: 10, Wins: 2},
	}

	rows := BuildLeaderboardRows(accs, "month_kbo_2026-07", MonthlyBoardMinPosts)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].UID)
}
