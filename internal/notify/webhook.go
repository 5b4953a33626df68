// Package notify provides the community webhook client for broadcasting
// gamification events (badge unlocks, level ups, redemptions) to a chat
// channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/terraquest/terraquest-backend/internal/config"
	"github.com/terraquest/terraquest-backend/internal/metrics"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// Notification kinds reported to metrics.
const (
	KindBadgeUnlock = "badge_unlock"
	KindLevelUp     = "level_up"
	KindRedemption  = "redemption"
)

// Client handles community webhook notifications. A disabled client silently
// drops every message, so callers never branch on configuration.
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new community webhook client.
func NewClient(cfg *config.CommunityConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    cfg.Enabled,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Message represents a webhook message payload.
type Message struct {
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

// SendMessage sends a message to the community webhook.
func (c *Client) SendMessage(ctx context.Context, msg *Message) error {
	if !c.enabled {
		c.log.Debug().Msg("Community notifications disabled, skipping message")
		return nil
	}

	if msg.Channel == "" {
		msg.Channel = c.channel
	}
	if msg.Username == "" {
		msg.Username = "TerraQuest"
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send community notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("community webhook returned status %d", resp.StatusCode)
	}

	c.log.Debug().
		Str("channel", msg.Channel).
		Msg("Sent community notification")

	return nil
}

// AnnounceBadgeUnlock broadcasts a badge unlock.
func (c *Client) AnnounceBadgeUnlock(ctx context.Context, userName, badgeName, badgeIcon string) {
	text := fmt.Sprintf("%s **%s** just unlocked the **%s** badge! 🎉", badgeIcon, userName, badgeName)
	c.send(ctx, KindBadgeUnlock, text)
}

// AnnounceLevelUp broadcasts a level transition.
func (c *Client) AnnounceLevelUp(ctx context.Context, userName, level string, ecoScore int) {
	text := fmt.Sprintf("🏆 **%s** reached **%s** with %d eco points!", userName, level, ecoScore)
	c.send(ctx, KindLevelUp, text)
}

// AnnounceRedemption broadcasts an NGO reward redemption.
func (c *Client) AnnounceRedemption(ctx context.Context, userName, rewardLabel string) {
	text := fmt.Sprintf("🌍 **%s** redeemed points for **%s**. Real-world impact!", userName, rewardLabel)
	c.send(ctx, KindRedemption, text)
}

// send delivers fire-and-forget announcements. Failures are logged and
// counted, never surfaced, so notification outages cannot fail a scan.
func (c *Client) send(ctx context.Context, kind, text string) {
	if !c.enabled {
		return
	}
	if err := c.SendMessage(ctx, &Message{Text: text}); err != nil {
		metrics.RecordNotificationSent(kind, metrics.StatusError)
		c.log.Warn().Err(err).Str("kind", kind).Msg("Failed to send community notification")
		return
	}
	metrics.RecordNotificationSent(kind, metrics.StatusOK)
}
