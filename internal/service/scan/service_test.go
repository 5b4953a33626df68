package scan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/models"
	"github.com/terraquest/terraquest-backend/internal/repository"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// fakeNotifier records announcements instead of sending them.
type fakeNotifier struct {
	badgeUnlocks []string
	levelUps     []string
}

func (f *fakeNotifier) AnnounceBadgeUnlock(_ context.Context, _, badgeName, _ string) {
	f.badgeUnlocks = append(f.badgeUnlocks, badgeName)
}

func (f *fakeNotifier) AnnounceLevelUp(_ context.Context, _, level string, _ int) {
	f.levelUps = append(f.levelUps, level)
}

// leaderboardRow finds a user's leaderboard row, nil if absent.
func leaderboardRow(t *testing.T, db *repository.DB, userID string) *models.LeaderboardEntry {
	t.Helper()

	board, err := repository.NewLeaderboardRepository(db).Top(0)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	for i := range board {
		if board[i].UserID == userID {
			return &board[i]
		}
	}
	return nil
}

func testLevelTable(t *testing.T) *engine.LevelTable {
	t.Helper()

	table, err := engine.NewLevelTable([]models.Level{
		{Name: "Eco Rookie", MinPoints: 0, MaxPoints: 200, Position: 1},
		{Name: "Green Explorer", MinPoints: 200, MaxPoints: 500, Position: 2},
		{Name: "Eco Guardian", MinPoints: 500, MaxPoints: 1000, Position: 3},
		{Name: "Planet Protector", MinPoints: 1000, MaxPoints: 2000, Position: 4},
		{Name: "Earth Champion", MinPoints: 2000, MaxPoints: 5000, Position: 5},
		{Name: "Sustainability Master", MinPoints: 5000, MaxPoints: 0, Position: 6},
	})
	if err != nil {
		t.Fatalf("Failed to build level table: %v", err)
	}
	return table
}

func setupScanService(t *testing.T) (*Service, *repository.DB, *fakeNotifier) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db := &repository.DB{DB: gormDB}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	products := []models.Product{
		{Barcode: "12345", Name: "Coca-Cola 500ml", SustainabilityScore: 45, CarbonFootprint: 65, Summary: "Sugary drink in a plastic bottle."},
		{Barcode: "67890", Name: "Organic Apples 1kg", SustainabilityScore: 88, CarbonFootprint: 15, Summary: "Locally grown organic fruit."},
		{Barcode: "44444", Name: "Bamboo Toothbrush", SustainabilityScore: 92, CarbonFootprint: 10, Summary: "Biodegradable bamboo handle."},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("Failed to seed products: %v", err)
	}

	challenges := []models.Challenge{
		{ID: models.ChallengeFirstScan, Title: "First Scan", Target: 1, Status: models.ChallengeStatusActive},
		{ID: models.ChallengeScanCount, Title: "Scan 10 Products", Target: 10, Status: models.ChallengeStatusActive},
		{ID: models.ChallengeLowCarbon, Title: "Low Carbon Week", Target: 7, Status: models.ChallengeStatusActive},
	}
	if err := db.Create(&challenges).Error; err != nil {
		t.Fatalf("Failed to seed challenges: %v", err)
	}

	badges := []models.Badge{
		{ID: models.BadgeEcoBeginner, Name: "Eco Beginner", Icon: "🌱"},
		{ID: models.BadgeEcoGuardian, Name: "Eco Guardian", Icon: "🛡️"},
		{ID: models.BadgeGreenExplorer, Name: "Green Explorer", Icon: "🧭"},
	}
	if err := db.Create(&badges).Error; err != nil {
		t.Fatalf("Failed to seed badges: %v", err)
	}

	notifier := &fakeNotifier{}
	svc := NewService(db, testLevelTable(t), engine.DefaultLowCarbonThreshold, notifier, logger.Get())
	return svc, db, notifier
}

func createScanUser(t *testing.T, db *repository.DB, id string, ecoScore, totalScans int) *models.User {
	t.Helper()

	user := &models.User{
		ID:         id,
		Name:       "Alice",
		Email:      id + "@example.com",
		EcoScore:   ecoScore,
		Level:      "Eco Rookie",
		TotalScans: totalScans,
		Avatar:     "🌱",
		JoinedAt:   time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func TestService_Scan_FirstScan(t *testing.T) {
	svc, db, _ := setupScanService(t)
	createScanUser(t, db, "user_001", 0, 0)

	result, err := svc.Scan(context.Background(), "user_001", "12345")
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	// Score 45 falls in the moderate bucket
	if result.PointsEarned != 20 {
		t.Errorf("Expected 20 points, got %d", result.PointsEarned)
	}
	if result.EcoScore != 20 {
		t.Errorf("Expected eco score 20, got %d", result.EcoScore)
	}
	if result.Level.Name != "Eco Rookie" {
		t.Errorf("Expected Eco Rookie, got %q", result.Level.Name)
	}

	// First scan unlocks Eco Beginner
	if len(result.NewBadges) != 1 || result.NewBadges[0].ID != models.BadgeEcoBeginner {
		t.Errorf("Expected Eco Beginner unlock, got %+v", result.NewBadges)
	}

	// First-scan challenge completes
	var gotFirstScan bool
	for _, c := range result.Completed {
		if c.ID == models.ChallengeFirstScan {
			gotFirstScan = true
		}
	}
	if !gotFirstScan {
		t.Errorf("Expected first-scan challenge completion, got %+v", result.Completed)
	}

	if !strings.Contains(result.Feedback, "⚠️") {
		t.Errorf("Expected caution feedback for score 45, got %q", result.Feedback)
	}

	// Persisted state matches the result
	user, _ := repository.NewUserRepository(db).GetByID("user_001")
	if user.EcoScore != 20 || user.TotalScans != 1 {
		t.Errorf("Expected persisted score 20 / scans 1, got %d / %d", user.EcoScore, user.TotalScans)
	}

	entry := leaderboardRow(t, db, "user_001")
	if entry == nil || entry.EcoScore != 20 {
		t.Errorf("Expected leaderboard entry with score 20, got %+v", entry)
	}
}

func TestService_Scan_NameResolution(t *testing.T) {
	svc, db, _ := setupScanService(t)
	createScanUser(t, db, "user_001", 0, 0)

	result, err := svc.Scan(context.Background(), "user_001", "cola")
	if err != nil {
		t.Fatalf("Scan() by name failed: %v", err)
	}
	if result.Product.Barcode != "12345" {
		t.Errorf("Expected Coca-Cola via substring, got %q", result.Product.Barcode)
	}
}

func TestService_Scan_UnknownIdentifier(t *testing.T) {
	svc, db, _ := setupScanService(t)
	createScanUser(t, db, "user_001", 100, 5)

	_, err := svc.Scan(context.Background(), "user_001", "nonexistent-product")
	if !errors.Is(err, engine.ErrProductNotFound) {
		t.Fatalf("Expected ErrProductNotFound, got %v", err)
	}

	// A miss must not mutate anything
	user, _ := repository.NewUserRepository(db).GetByID("user_001")
	if user.EcoScore != 100 || user.TotalScans != 5 {
		t.Errorf("Expected state untouched, got score %d / scans %d", user.EcoScore, user.TotalScans)
	}
	count, _ := repository.NewScanRepository(db).CountByUser("user_001")
	if count != 0 {
		t.Errorf("Expected no scan records, got %d", count)
	}
}

func TestService_Scan_UnknownUser(t *testing.T) {
	svc, _, _ := setupScanService(t)

	_, err := svc.Scan(context.Background(), "ghost", "12345")
	if !errors.Is(err, engine.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestService_Scan_LowCarbonChallenge(t *testing.T) {
	svc, db, _ := setupScanService(t)
	createScanUser(t, db, "user_001", 0, 0)

	// Bamboo toothbrush has carbon footprint 10, below the threshold
	if _, err := svc.Scan(context.Background(), "user_001", "44444"); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	challenges, err := repository.NewChallengeRepository(db).GetForUser("user_001")
	if err != nil {
		t.Fatalf("GetForUser() failed: %v", err)
	}
	for _, c := range challenges {
		if c.ID == models.ChallengeLowCarbon && c.Progress != 1 {
			t.Errorf("Expected low-carbon progress 1, got %d", c.Progress)
		}
	}

	// Coca-Cola is high carbon, must not advance the low-carbon challenge
	if _, err := svc.Scan(context.Background(), "user_001", "12345"); err != nil {
		t.Fatalf("Second Scan() failed: %v", err)
	}
	challenges, _ = repository.NewChallengeRepository(db).GetForUser("user_001")
	for _, c := range challenges {
		if c.ID == models.ChallengeLowCarbon && c.Progress != 1 {
			t.Errorf("Expected low-carbon progress unchanged at 1, got %d", c.Progress)
		}
	}
}

func TestService_Scan_GreenExplorerBadge(t *testing.T) {
	svc, db, _ := setupScanService(t)
	createScanUser(t, db, "user_001", 500, 24)
	// Badge for the first scan was already earned long ago
	if err := repository.NewBadgeRepository(db).Unlock("user_001", models.BadgeEcoBeginner); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}

	result, err := svc.Scan(context.Background(), "user_001", "12345")
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	// The 25th scan unlocks Green Explorer
	var gotExplorer bool
	for _, b := range result.NewBadges {
		if b.ID == models.BadgeGreenExplorer {
			gotExplorer = true
		}
		if b.ID == models.BadgeEcoBeginner {
			t.Error("Eco Beginner must not unlock twice")
		}
	}
	if !gotExplorer {
		t.Errorf("Expected Green Explorer unlock on 25th scan, got %+v", result.NewBadges)
	}
}

func TestService_Scan_GuardianBadgeAndLevelUp(t *testing.T) {
	svc, db, notifier := setupScanService(t)
	user := createScanUser(t, db, "user_001", 990, 10)
	user.Level = "Eco Guardian"
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	// 990 + 20 crosses both the badge threshold and the level boundary
	result, err := svc.Scan(context.Background(), "user_001", "12345")
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if result.EcoScore != 1010 {
		t.Errorf("Expected score 1010, got %d", result.EcoScore)
	}
	if result.Level.Name != "Planet Protector" {
		t.Errorf("Expected Planet Protector, got %q", result.Level.Name)
	}
	if !result.LeveledUp {
		t.Error("Expected level-up flag")
	}

	var gotGuardian bool
	for _, b := range result.NewBadges {
		if b.ID == models.BadgeEcoGuardian {
			gotGuardian = true
		}
	}
	if !gotGuardian {
		t.Errorf("Expected Eco Guardian unlock at 1000+, got %+v", result.NewBadges)
	}

	if len(notifier.levelUps) != 1 || notifier.levelUps[0] != "Planet Protector" {
		t.Errorf("Expected level-up announcement, got %v", notifier.levelUps)
	}
	if len(notifier.badgeUnlocks) == 0 {
		t.Error("Expected badge unlock announcement")
	}
}

func TestService_History(t *testing.T) {
	svc, db, _ := setupScanService(t)
	createScanUser(t, db, "user_001", 0, 0)

	if _, err := svc.Scan(context.Background(), "user_001", "12345"); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if _, err := svc.Scan(context.Background(), "user_001", "44444"); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	history, err := svc.History(context.Background(), "user_001", 0)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(history))
	}

	_, err = svc.History(context.Background(), "ghost", 0)
	if !errors.Is(err, engine.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound for unknown user, got %v", err)
	}
}
