package rebuild

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pickstats/rankings/internal/aggregate"
	"pickstats/rankings/internal/models"
)

// EligibleMinPosts is the post count a user needs before they can enter
// top-decile averages or any "top users" surface.
const EligibleMinPosts = 10

// Minimum-post gates for leaderboard rows.
const (
	WeeklyBoardMinPosts  = 5
	MonthlyBoardMinPosts = 10
)

// distributions holds the fully materialized cohort arrays the ranking stage
// consumes. Percentiles need the whole cohort before the first rank is
// computed, so accumulation and ranking are two strict sequential stages.
type distributions struct {
	winRate      []float64
	accuracy     []float64
	avgPrecision []float64
	avgUpset     []float64

	// leagueVolume maps league id to the sorted post counts of users who
	// posted in that league. Volume percentiles rank within the league
	// cohort, not the global one.
	leagueVolume map[string][]float64
}

func materialize(accs map[string]*aggregate.Accumulator, derived map[string]aggregate.Derived) distributions {
	d := distributions{
		winRate:      make([]float64, 0, len(accs)),
		accuracy:     make([]float64, 0, len(accs)),
		avgPrecision: make([]float64, 0, len(accs)),
		avgUpset:     make([]float64, 0, len(accs)),
		leagueVolume: make(map[string][]float64),
	}

	for uid, acc := range accs {
		m := derived[uid]
		d.winRate = append(d.winRate, m.WinRate)
		d.accuracy = append(d.accuracy, m.Accuracy)
		d.avgPrecision = append(d.avgPrecision, m.AvgPrecision)
		d.avgUpset = append(d.avgUpset, m.AvgUpset)

		for league, posts := range acc.LeaguePosts {
			d.leagueVolume[league] = append(d.leagueVolume[league], float64(posts))
		}
	}

	sort.Float64s(d.winRate)
	sort.Float64s(d.accuracy)
	sort.Float64s(d.avgPrecision)
	sort.Float64s(d.avgUpset)
	for _, values := range d.leagueVolume {
		sort.Float64s(values)
	}

	return d
}

// BuildMonthlyStats assembles the full per-user documents for one period.
// Output is sorted by uid, and the function is pure: identical inputs yield
// identical documents, which is what makes a rebuild idempotent.
func BuildMonthlyStats(
	accs map[string]*aggregate.Accumulator,
	behaviors map[string]*aggregate.BehaviorProfile,
	classifier aggregate.TypeClassifier,
	periodID string,
	rebuiltAt time.Time,
) []models.MonthlyUserStat {
	// Stage one: accumulate every user's derived metrics.
	derived := make(map[string]aggregate.Derived, len(accs))
	for uid, acc := range accs {
		derived[uid] = aggregate.ComputeDerived(acc)
	}

	dist := materialize(accs, derived)

	// Stage two: rank against the materialized cohort and assemble.
	stats := make([]models.MonthlyUserStat, 0, len(accs))
	for uid, acc := range accs {
		m := derived[uid]

		behavior := behaviors[uid]
		if behavior == nil {
			behavior = &aggregate.BehaviorProfile{}
		}

		mainLeague := acc.MainLeague()
		volumePercentile := 0
		if mainLeague != "" {
			volumePercentile = aggregate.Percentile(
				dist.leagueVolume[mainLeague],
				float64(acc.LeaguePosts[mainLeague]),
			)
		}

		radar := aggregate.NormalizeRadar(m, behavior.Streak, behavior.FavoriteRatio())
		levels := aggregate.ClassifyLevels(radar)

		stats = append(stats, models.MonthlyUserStat{
			DocID:      fmt.Sprintf("%s_%s", uid, periodID),
			UID:        uid,
			PeriodID:   periodID,
			MainLeague: mainLeague,
			Raw: models.RawStats{
				Posts:        acc.Posts,
				Wins:         acc.Wins,
				WinRate:      m.WinRate,
				Accuracy:     m.Accuracy,
				AvgPrecision: m.AvgPrecision,
				AvgUpset:     m.AvgUpset,
				LeaguePosts:  acc.LeaguePosts,
			},
			Percentiles: models.Percentiles{
				WinRate:      aggregate.Percentile(dist.winRate, m.WinRate),
				Accuracy:     aggregate.Percentile(dist.accuracy, m.Accuracy),
				AvgPrecision: aggregate.Percentile(dist.avgPrecision, m.AvgPrecision),
				AvgUpset:     aggregate.Percentile(dist.avgUpset, m.AvgUpset),
				LeagueVolume: volumePercentile,
			},
			Radar:          radar,
			Levels:         levels,
			AnalysisTypeID: classifier.Classify(levels),
			HomeAway:       behavior.HomeAway,
			MarketBias:     behavior.MarketBias,
			Teams:          behavior.Teams,
			Streak:         behavior.Streak,
			RebuiltAt:      rebuiltAt,
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].UID < stats[j].UID })
	return stats
}

// BuildGlobalStat computes the cohort document from the assembled per-user
// rows. Averages use the whole cohort; top-decile averages use only eligible
// users and are taken per metric independently.
func BuildGlobalStat(stats []models.MonthlyUserStat, settledGames, upsetGames int, periodID string, rebuiltAt time.Time) models.MonthlyGlobalStat {
	g := models.MonthlyGlobalStat{
		PeriodID:     periodID,
		CohortSize:   len(stats),
		SettledGames: settledGames,
		UpsetGames:   upsetGames,
		RebuiltAt:    rebuiltAt,
	}

	if settledGames > 0 {
		g.UpsetRate = float64(upsetGames) / float64(settledGames)
	}

	if len(stats) == 0 {
		return g
	}

	var eligible []models.MonthlyUserStat
	for _, s := range stats {
		g.Average.WinRate += s.Raw.WinRate
		g.Average.Accuracy += s.Raw.Accuracy
		g.Average.AvgPrecision += s.Raw.AvgPrecision
		g.Average.AvgUpset += s.Raw.AvgUpset

		if s.Raw.Posts >= EligibleMinPosts {
			eligible = append(eligible, s)
		}
	}

	n := float64(len(stats))
	g.Average.WinRate /= n
	g.Average.Accuracy /= n
	g.Average.AvgPrecision /= n
	g.Average.AvgUpset /= n

	g.EligibleCount = len(eligible)
	g.TopDecile = models.MetricSet{
		WinRate:      topDecileAvg(eligible, func(s models.MonthlyUserStat) float64 { return s.Raw.WinRate }),
		Accuracy:     topDecileAvg(eligible, func(s models.MonthlyUserStat) float64 { return s.Raw.Accuracy }),
		AvgPrecision: topDecileAvg(eligible, func(s models.MonthlyUserStat) float64 { return s.Raw.AvgPrecision }),
		AvgUpset:     topDecileAvg(eligible, func(s models.MonthlyUserStat) float64 { return s.Raw.AvgUpset }),
	}

	return g
}

// topDecileAvg averages the top 10% of eligible users by one metric. Each
// metric gets its own decile; there is no shared "top users" set.
func topDecileAvg(eligible []models.MonthlyUserStat, metric func(models.MonthlyUserStat) float64) float64 {
	if len(eligible) == 0 {
		return 0
	}

	values := make([]float64, len(eligible))
	for i, s := range eligible {
		values[i] = metric(s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	take := int(math.Ceil(float64(len(values)) * 0.1))
	sum := 0.0
	for _, v := range values[:take] {
		sum += v
	}
	return sum / float64(take)
}

// BuildLeaderboardRows derives, gates, and ranks one league's accumulators.
// Users below minPosts never appear, whatever their metrics. Ordering is
// winRate desc, accuracy desc, posts desc, then uid for a stable total order.
func BuildLeaderboardRows(accs map[string]*aggregate.Accumulator, boardID string, minPosts int) []models.LeaderboardRow {
	rows := make([]models.LeaderboardRow, 0, len(accs))
	for uid, acc := range accs {
		if acc.Posts < minPosts {
			continue
		}

		m := aggregate.ComputeDerived(acc)
		rows = append(rows, models.LeaderboardRow{
			BoardID:      boardID,
			UID:          uid,
			Posts:        acc.Posts,
			Wins:         acc.Wins,
			WinRate:      m.WinRate,
			Accuracy:     m.Accuracy,
			AvgPrecision: m.AvgPrecision,
			AvgUpset:     m.AvgUpset,
			Consistency:  aggregate.Consistency(acc.Wins, acc.Posts),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WinRate != rows[j].WinRate {
			return rows[i].WinRate > rows[j].WinRate
		}
		if rows[i].Accuracy != rows[j].Accuracy {
			return rows[i].Accuracy > rows[j].Accuracy
		}
		if rows[i].Posts != rows[j].Posts {
			return rows[i].Posts > rows[j].Posts
		}
		return rows[i].UID < rows[j].UID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}
