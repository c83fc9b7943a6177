package aggregate

import (
	"sort"
	"time"

	"pickstats/rankings/internal/models"
)

// minTeamPosts is the floor for a team to appear in a user's strong/weak
// affinity lists.
const minTeamPosts = 5

// affinityListSize caps both the strong and weak team lists.
const affinityListSize = 3

// BehaviorProfile is the second-pass output for one user: pick behavior that
// cannot be derived from the daily sums.
type BehaviorProfile struct {
	HomeAway   models.HomeAwaySplit
	MarketBias models.MarketBias
	Teams      models.TeamAffinity
	Streak     models.Streak
}

// FavoriteRatio is the share of favorite picks among sided picks, feeding the
// market radar axis.
func (b *BehaviorProfile) FavoriteRatio() float64 {
	total := b.MarketBias.FavoritePicks + b.MarketBias.UnderdogPicks
	if total == 0 {
		return 0
	}
	return float64(b.MarketBias.FavoritePicks) / float64(total)
}

type outcome struct {
	settledAt time.Time
	isWin     bool
}

type behaviorAcc struct {
	homePosts, homeWins int
	awayPosts, awayWins int

	favPicks, favWins int
	dogPicks, dogWins int
	favRatioSum       float64

	teamPosts map[string]int
	teamWins  map[string]int

	outcomes []outcome
}

// AggregateBehavior walks settled posts grouped by author and produces each
// user's behavior profile. Posts not yet final are ignored.
func AggregateBehavior(posts []models.SettledPost) map[string]*BehaviorProfile {
	accs := make(map[string]*behaviorAcc)

	for _, p := range posts {
		if p.Status != models.StatusFinal {
			continue
		}

		acc, ok := accs[p.UID]
		if !ok {
			acc = &behaviorAcc{
				teamPosts: make(map[string]int),
				teamWins:  make(map[string]int),
			}
			accs[p.UID] = acc
		}

		switch p.PickSide {
		case models.SideHome:
			acc.homePosts++
			if p.IsWin {
				acc.homeWins++
			}
		case models.SideAway:
			acc.awayPosts++
			if p.IsWin {
				acc.awayWins++
			}
		}

		// Favorite means the pick matched the market-majority side recorded
		// at posting time.
		if p.MajoritySide != "" {
			if p.PickSide == p.MajoritySide {
				acc.favPicks++
				acc.favRatioSum += p.MajorityRatio
				if p.IsWin {
					acc.favWins++
				}
			} else {
				acc.dogPicks++
				if p.IsWin {
					acc.dogWins++
				}
			}
		}

		if p.PickTeamID != "" {
			acc.teamPosts[p.PickTeamID]++
			if p.IsWin {
				acc.teamWins[p.PickTeamID]++
			}
		}

		acc.outcomes = append(acc.outcomes, outcome{settledAt: p.SettledAt, isWin: p.IsWin})
	}

	profiles := make(map[string]*BehaviorProfile, len(accs))
	for uid, acc := range accs {
		profiles[uid] = acc.profile()
	}
	return profiles
}

func (a *behaviorAcc) profile() *BehaviorProfile {
	p := &BehaviorProfile{
		HomeAway: models.HomeAwaySplit{
			Home: sideStats(a.homePosts, a.homeWins),
			Away: sideStats(a.awayPosts, a.awayWins),
		},
		MarketBias: models.MarketBias{
			FavoritePicks:   a.favPicks,
			FavoriteWins:    a.favWins,
			FavoriteWinRate: rate(a.favWins, a.favPicks),
			UnderdogPicks:   a.dogPicks,
			UnderdogWins:    a.dogWins,
			UnderdogWinRate: rate(a.dogWins, a.dogPicks),
		},
		Teams:  teamAffinity(a.teamPosts, a.teamWins),
		Streak: computeStreak(a.outcomes),
	}

	if a.favPicks > 0 {
		p.MarketBias.AvgMajorityRatio = a.favRatioSum / float64(a.favPicks)
	}

	return p
}

func sideStats(posts, wins int) models.SideStats {
	return models.SideStats{Posts: posts, Wins: wins, WinRate: rate(wins, posts)}
}

func rate(wins, posts int) float64 {
	if posts == 0 {
		return 0
	}
	return float64(wins) / float64(posts)
}

// teamAffinity filters teams to >=5 posts, sorts by winRate desc then posts
// desc then id, and takes the top three as strong. Weak is up to three of the
// remaining qualified teams, lowest winRate first, never reusing a strong id.
func teamAffinity(teamPosts, teamWins map[string]int) models.TeamAffinity {
	qualified := make([]models.TeamRecord, 0, len(teamPosts))
	for id, posts := range teamPosts {
		if posts < minTeamPosts {
			continue
		}
		qualified = append(qualified, models.TeamRecord{
			TeamID:  id,
			Posts:   posts,
			Wins:    teamWins[id],
			WinRate: rate(teamWins[id], posts),
		})
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].WinRate != qualified[j].WinRate {
			return qualified[i].WinRate > qualified[j].WinRate
		}
		if qualified[i].Posts != qualified[j].Posts {
			return qualified[i].Posts > qualified[j].Posts
		}
		return qualified[i].TeamID < qualified[j].TeamID
	})

	affinity := models.TeamAffinity{}
	inStrong := make(map[string]bool)
	for i := 0; i < len(qualified) && i < affinityListSize; i++ {
		affinity.Strong = append(affinity.Strong, qualified[i])
		inStrong[qualified[i].TeamID] = true
	}

	for i := len(qualified) - 1; i >= 0 && len(affinity.Weak) < affinityListSize; i-- {
		if inStrong[qualified[i].TeamID] {
			continue
		}
		affinity.Weak = append(affinity.Weak, qualified[i])
	}

	return affinity
}

// computeStreak sorts results ascending by settlement time and walks once,
// tracking win and lose runs independently. A win resets the lose counter and
// vice versa.
func computeStreak(outcomes []outcome) models.Streak {
	sorted := make([]outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].settledAt.Before(sorted[j].settledAt)
	})

	var s models.Streak
	curWin, curLose := 0, 0
	for _, o := range sorted {
		if o.isWin {
			curWin++
			curLose = 0
			if curWin > s.MaxWin {
				s.MaxWin = curWin
			}
		} else {
			curLose++
			curWin = 0
			if curLose > s.MaxLose {
				s.MaxLose = curLose
			}
		}
	}
	return s
}
