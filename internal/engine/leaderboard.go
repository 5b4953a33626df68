package engine

import (
	"sort"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// SortEntries orders leaderboard entries descending by eco score. The sort is
// stable, so ties keep their relative insertion order.
func SortEntries(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EcoScore > entries[j].EcoScore
	})
}

// RankEntries sorts the board and fills in ranks in place. Tied scores share
// the rank of the first of them.
func RankEntries(entries []models.LeaderboardEntry) {
	SortEntries(entries)
	for i := range entries {
		if i > 0 && entries[i].EcoScore == entries[i-1].EcoScore {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// RankOf computes a user's rank: 1 plus the number of entries with a strictly
// greater score. Users absent from the board rank last.
func RankOf(entries []models.LeaderboardEntry, userID string) int {
	var score int
	found := false
	for i := range entries {
		if entries[i].UserID == userID {
			score = entries[i].EcoScore
			found = true
			break
		}
	}
	if !found {
		return len(entries) + 1
	}

	rank := 1
	for i := range entries {
		if entries[i].EcoScore > score {
			rank++
		}
	}
	return rank
}
