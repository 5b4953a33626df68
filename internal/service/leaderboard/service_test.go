package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraquest/terraquest-backend/internal/cache"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// mockRepo serves a fixed board and counts reads.
type mockRepo struct {
	entries  []models.LeaderboardEntry
	topCalls int
	err      error
}

func (m *mockRepo) Top(limit int) ([]models.LeaderboardEntry, error) {
	m.topCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := append([]models.LeaderboardEntry(nil), m.entries...)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func testBoard() []models.LeaderboardEntry {
	// Sorted descending, as the repository returns it
	return []models.LeaderboardEntry{
		{UserID: "user_002", Name: "Bob", EcoScore: 900},
		{UserID: "user_003", Name: "Carol", EcoScore: 600},
		{UserID: "user_004", Name: "Dan", EcoScore: 600},
		{UserID: "user_001", Name: "Alice", EcoScore: 300},
	}
}

func TestService_Top_Ranks(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	entries, err := svc.Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}

	wantRanks := []int{1, 2, 2, 4}
	for i, want := range wantRanks {
		if entries[i].Rank != want {
			t.Errorf("Entry %d (%s): expected rank %d, got %d", i, entries[i].Name, want, entries[i].Rank)
		}
	}
}

func TestService_Top_CachesFullBoard(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	if _, err := svc.Top(context.Background(), 0); err != nil {
		t.Fatalf("First Top() failed: %v", err)
	}
	if _, err := svc.Top(context.Background(), 0); err != nil {
		t.Fatalf("Second Top() failed: %v", err)
	}

	if repo.topCalls != 1 {
		t.Errorf("Expected second read served from cache, got %d repo reads", repo.topCalls)
	}
}

func TestService_Top_LimitedReadsBypassCache(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	if _, err := svc.Top(context.Background(), 2); err != nil {
		t.Fatalf("Top(2) failed: %v", err)
	}
	entries, err := svc.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Second Top(2) failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
	if repo.topCalls != 2 {
		t.Errorf("Expected limited reads to hit the repository, got %d reads", repo.topCalls)
	}
}

func TestService_Invalidate(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	if _, err := svc.Top(context.Background(), 0); err != nil {
		t.Fatalf("Top() failed: %v", err)
	}

	svc.Invalidate(context.Background())

	if _, err := svc.Top(context.Background(), 0); err != nil {
		t.Fatalf("Top() after invalidation failed: %v", err)
	}
	if repo.topCalls != 2 {
		t.Errorf("Expected invalidation to force a repository read, got %d reads", repo.topCalls)
	}
}

func TestService_Top_NoCache(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, nil, 0, logger.Get())

	if _, err := svc.Top(context.Background(), 0); err != nil {
		t.Fatalf("Top() without cache failed: %v", err)
	}
}

func TestService_Top_RepoError(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	if _, err := svc.Top(context.Background(), 0); err == nil {
		t.Fatal("Expected error from failing repository")
	}
}

func TestService_Rank(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	tests := []struct {
		userID string
		want   int
	}{
		{"user_002", 1},
		{"user_003", 2},
		{"user_004", 2}, // tied with user_003
		{"user_001", 4},
		{"ghost", 5}, // off-board users rank after everyone
	}

	for _, tt := range tests {
		rank, err := svc.Rank(context.Background(), tt.userID)
		if err != nil {
			t.Fatalf("Rank(%s) failed: %v", tt.userID, err)
		}
		if rank != tt.want {
			t.Errorf("Rank(%s): expected %d, got %d", tt.userID, tt.want, rank)
		}
	}
}

func TestService_Rank_SharesBoardWithTop(t *testing.T) {
	repo := &mockRepo{entries: testBoard()}
	svc := NewServiceWithInterfaces(repo, cache.NewMemoryCache(), time.Minute, logger.Get())

	entries, err := svc.Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}

	rank, err := svc.Rank(context.Background(), "user_003")
	if err != nil {
		t.Fatalf("Rank() failed: %v", err)
	}

	// The rank must agree with the served board and come from the same
	// cached read.
	if entries[1].UserID != "user_003" || entries[1].Rank != rank {
		t.Errorf("Rank %d disagrees with board entry %+v", rank, entries[1])
	}
	if repo.topCalls != 1 {
		t.Errorf("Expected rank served from the cached board, got %d repo reads", repo.topCalls)
	}
}
