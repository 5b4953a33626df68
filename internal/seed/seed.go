// Package seed provides the embedded TerraQuest demo catalog: products,
// levels, challenges, rewards, badges, the demo leaderboard and the demo
// user. Demo mode runs entirely from this data; persistent mode uses it to
// populate an empty database.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/models"
)

//go:embed data.yaml
var embedded []byte

// Data is the full demo catalog.
type Data struct {
	Products    []productDoc     `yaml:"products"`
	Levels      []levelDoc       `yaml:"levels"`
	Challenges  []challengeDoc   `yaml:"challenges"`
	Rewards     []rewardDoc      `yaml:"rewards"`
	Badges      []badgeDoc       `yaml:"badges"`
	Leaderboard []leaderboardDoc `yaml:"leaderboard"`
	DemoUser    demoUserDoc      `yaml:"demo_user"`
}

type productDoc struct {
	Barcode             string   `yaml:"barcode"`
	Name                string   `yaml:"name"`
	CarbonFootprint     int      `yaml:"carbon_footprint"`
	Recyclable          bool     `yaml:"recyclable"`
	EthicalScore        int      `yaml:"ethical_score"`
	SustainabilityScore int      `yaml:"sustainability_score"`
	Category            string   `yaml:"category"`
	Summary             string   `yaml:"summary"`
	Alternatives        []string `yaml:"alternatives"`
}

type levelDoc struct {
	Name      string `yaml:"name"`
	MinPoints int    `yaml:"min_points"`
	MaxPoints int    `yaml:"max_points"`
	Color     string `yaml:"color"`
	Position  int    `yaml:"position"`
}

type challengeDoc struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Reward      int    `yaml:"reward"`
	Icon        string `yaml:"icon"`
	Target      int    `yaml:"target"`
	Progress    int    `yaml:"progress"`
	Status      string `yaml:"status"`
	Category    string `yaml:"category"`
}

type rewardDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Points      int    `yaml:"points"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Icon        string `yaml:"icon"`
	Impact      string `yaml:"impact"`
	Available   bool   `yaml:"available"`
}

type badgeDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

type leaderboardDoc struct {
	UserID   string `yaml:"user_id"`
	Name     string `yaml:"name"`
	EcoScore int    `yaml:"eco_score"`
	Level    string `yaml:"level"`
	Avatar   string `yaml:"avatar"`
}

type demoUserDoc struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Email           string   `yaml:"email"`
	EcoScore        int      `yaml:"eco_score"`
	TotalScans      int      `yaml:"total_scans"`
	Avatar          string   `yaml:"avatar"`
	TreesPlanted    int      `yaml:"trees_planted"`
	PlasticSaved    float64  `yaml:"plastic_saved"`
	CO2Reduced      float64  `yaml:"co2_reduced"`
	Badges          []string `yaml:"badges"`
	RedeemedRewards []string `yaml:"redeemed_rewards"`
}

// Load parses and validates the embedded catalog.
func Load() (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(embedded, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed data: %w", err)
	}
	return &data, nil
}

func (d *Data) validate() error {
	if len(d.Products) == 0 {
		return fmt.Errorf("no products")
	}
	if _, err := engine.NewLevelTable(d.LevelModels()); err != nil {
		return fmt.Errorf("level table: %w", err)
	}
	for _, r := range d.Rewards {
		switch models.ImpactKind(r.Impact) {
		case models.ImpactNone, models.ImpactTree, models.ImpactPlastic:
		default:
			return fmt.Errorf("reward %s: unknown impact kind %q", r.ID, r.Impact)
		}
		if r.Category != models.RewardCategoryNGO && r.Category != models.RewardCategoryBrand {
			return fmt.Errorf("reward %s: unknown category %q", r.ID, r.Category)
		}
	}
	return nil
}

// ProductModels converts the seeded products to domain models.
func (d *Data) ProductModels() []models.Product {
	out := make([]models.Product, 0, len(d.Products))
	for _, p := range d.Products {
		out = append(out, models.Product{
			Barcode:             p.Barcode,
			Name:                p.Name,
			CarbonFootprint:     p.CarbonFootprint,
			Recyclable:          p.Recyclable,
			EthicalScore:        p.EthicalScore,
			SustainabilityScore: p.SustainabilityScore,
			Category:            p.Category,
			Summary:             p.Summary,
			Alternatives:        models.StringSlice(p.Alternatives),
		})
	}
	return out
}

// LevelModels converts the seeded level tiers to domain models.
func (d *Data) LevelModels() []models.Level {
	out := make([]models.Level, 0, len(d.Levels))
	for _, l := range d.Levels {
		out = append(out, models.Level{
			Name:      l.Name,
			MinPoints: l.MinPoints,
			MaxPoints: l.MaxPoints,
			Color:     l.Color,
			Position:  l.Position,
		})
	}
	return out
}

// ChallengeModels converts the seeded challenges to domain models.
func (d *Data) ChallengeModels() []models.Challenge {
	out := make([]models.Challenge, 0, len(d.Challenges))
	for _, c := range d.Challenges {
		status := c.Status
		if status == "" {
			status = models.ChallengeStatusActive
		}
		out = append(out, models.Challenge{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Reward:      c.Reward,
			Icon:        c.Icon,
			Target:      c.Target,
			Progress:    c.Progress,
			Status:      status,
			Category:    c.Category,
		})
	}
	return out
}

// RewardModels converts the seeded rewards to domain models.
func (d *Data) RewardModels() []models.Reward {
	out := make([]models.Reward, 0, len(d.Rewards))
	for _, r := range d.Rewards {
		out = append(out, models.Reward{
			ID:          r.ID,
			Name:        r.Name,
			Label:       r.Label,
			Points:      r.Points,
			Description: r.Description,
			Category:    r.Category,
			Icon:        r.Icon,
			Impact:      models.ImpactKind(r.Impact),
			Available:   r.Available,
		})
	}
	return out
}

// BadgeModels converts the seeded badges to domain models.
func (d *Data) BadgeModels() []models.Badge {
	out := make([]models.Badge, 0, len(d.Badges))
	for _, b := range d.Badges {
		out = append(out, models.Badge{
			ID:          b.ID,
			Name:        b.Name,
			Icon:        b.Icon,
			Description: b.Description,
		})
	}
	return out
}

// LeaderboardModels converts the seeded leaderboard to domain models.
func (d *Data) LeaderboardModels() []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, 0, len(d.Leaderboard))
	for _, e := range d.Leaderboard {
		out = append(out, models.LeaderboardEntry{
			UserID:   e.UserID,
			Name:     e.Name,
			EcoScore: e.EcoScore,
			Level:    e.Level,
			Avatar:   e.Avatar,
		})
	}
	return out
}

// DemoUserModel builds the demo user aggregate with its level derived from
// the seeded level table.
func (d *Data) DemoUserModel() (*models.User, error) {
	table, err := engine.NewLevelTable(d.LevelModels())
	if err != nil {
		return nil, err
	}
	u := d.DemoUser
	return &models.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		EcoScore:     u.EcoScore,
		Level:        table.LevelFor(u.EcoScore).Name,
		TotalScans:   u.TotalScans,
		Avatar:       u.Avatar,
		TreesPlanted: u.TreesPlanted,
		PlasticSaved: u.PlasticSaved,
		CO2Reduced:   u.CO2Reduced,
		JoinedAt:     time.Now(),
	}, nil
}

// DemoUserBadges returns the badge ids the demo user starts with.
func (d *Data) DemoUserBadges() []string {
	return append([]string(nil), d.DemoUser.Badges...)
}

// DemoUserRedemptions returns the reward ids the demo user has redeemed.
func (d *Data) DemoUserRedemptions() []string {
	return append([]string(nil), d.DemoUser.RedeemedRewards...)
}
