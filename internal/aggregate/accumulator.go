package aggregate

import (
	"pickstats/rankings/internal/models"
)

// Accumulator folds a user's daily stat rows for one period into raw sums.
type Accumulator struct {
	UID              string
	Posts            int
	Wins             int
	BrierSum         float64
	PrecisionSum     float64
	UpsetHit         int
	UpsetOpportunity int
	UpsetPick        int
	LeaguePosts      map[string]int
}

// Fold collapses daily stat rows into per-user accumulators. Rows in the
// "all" scope contribute the core sums; per-league rows only feed the league
// post-count map. Rows with zero posts contribute nothing, and users whose
// total stays at zero are dropped from the cohort.
func Fold(records []models.DailyUserStat) map[string]*Accumulator {
	accs := make(map[string]*Accumulator)

	for _, rec := range records {
		if rec.Posts == 0 {
			continue
		}

		acc, ok := accs[rec.UID]
		if !ok {
			acc = &Accumulator{
				UID:         rec.UID,
				LeaguePosts: make(map[string]int),
			}
			accs[rec.UID] = acc
		}

		if rec.Scope == models.ScopeAll {
			acc.Posts += rec.Posts
			acc.Wins += rec.Wins
			acc.BrierSum += rec.BrierSum
			acc.PrecisionSum += rec.PrecisionSum
			acc.UpsetHit += rec.UpsetHit
			acc.UpsetOpportunity += rec.UpsetOpportunity
			acc.UpsetPick += rec.UpsetPick
		} else {
			acc.LeaguePosts[rec.Scope] += rec.Posts
		}
	}

	// A user who only had league-scoped rows with no "all" aggregate has no
	// core sums to rank; drop them the same as a zero-post user.
	for uid, acc := range accs {
		if acc.Posts == 0 {
			delete(accs, uid)
		}
	}

	return accs
}

// FoldLeague collapses rows already restricted to a single league scope.
// Used by the leaderboard pipeline, where the per-league rows carry the full
// field set.
func FoldLeague(records []models.DailyUserStat) map[string]*Accumulator {
	accs := make(map[string]*Accumulator)

	for _, rec := range records {
		if rec.Posts == 0 {
			continue
		}

		acc, ok := accs[rec.UID]
		if !ok {
			acc = &Accumulator{
				UID:         rec.UID,
				LeaguePosts: make(map[string]int),
			}
			accs[rec.UID] = acc
		}

		acc.Posts += rec.Posts
		acc.Wins += rec.Wins
		acc.BrierSum += rec.BrierSum
		acc.PrecisionSum += rec.PrecisionSum
		acc.UpsetHit += rec.UpsetHit
		acc.UpsetOpportunity += rec.UpsetOpportunity
		acc.UpsetPick += rec.UpsetPick
		acc.LeaguePosts[rec.Scope] += rec.Posts
	}

	return accs
}

// MainLeague returns the league the user posted in most. Ties break to the
// lexicographically smallest league id so repeated rebuilds stay identical.
func (a *Accumulator) MainLeague() string {
	best := ""
	bestPosts := 0
	for league, posts := range a.LeaguePosts {
		if posts > bestPosts || (posts == bestPosts && (best == "" || league < best)) {
			best = league
			bestPosts = posts
		}
	}
	return best
}
