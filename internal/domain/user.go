package domain

import "time"

// Theme values accepted for the user preference.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Subscription tiers.
const (
	TierFree    = "free"
	TierPro     = "pro"
	TierPremium = "premium"
)

// User represents a registered account.
type User struct {
	ID                    int64
	Email                 string
	PasswordHash          string
	Username              string
	AvatarURL             string
	Locale                string
	Theme                 string
	PlaybackSpeed         float64
	SubscriptionTier      string
	SubscriptionExpiresAt *time.Time
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	LastLoginAt           *time.Time
}

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Username      *string
	AvatarURL     *string
	Locale        *string
	Theme         *string
	PlaybackSpeed *float64
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.AvatarURL == nil && u.Locale == nil &&
		u.Theme == nil && u.PlaybackSpeed == nil
}
