// Package engine implements the TerraQuest gamification rules: scan scoring,
// level resolution, challenge advancement, badge unlocks, leaderboard ordering
// and reward redemption accounting. Everything here is deterministic and free
// of I/O; orchestration and persistence live in the service layer.
package engine

import "errors"

// Domain errors surfaced to callers. All are recoverable at the call site.
var (
	// ErrProductNotFound is returned when a scan identifier matches neither
	// a barcode nor a product name.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound is returned for operations on an unknown user id.
	ErrUserNotFound = errors.New("user not found")

	// ErrRewardNotFound is returned when redeeming an unknown reward id.
	ErrRewardNotFound = errors.New("reward not found")

	// ErrInsufficientPoints is returned when the user's balance cannot cover
	// a reward's cost. No partial redemption occurs.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrRewardAlreadyRedeemed is returned for duplicate redemptions when the
	// reject policy is active.
	ErrRewardAlreadyRedeemed = errors.New("reward already redeemed")
)
