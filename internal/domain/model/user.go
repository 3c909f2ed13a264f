package model

import (
	"time"

	"telegram-wallpaper-bot/internal/domain"
)

// Profile is the sender snapshot as supplied by the Telegram gateway.
// Fields are stored as-is, no validation beyond a positive ID.
type Profile struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsBot        bool
	IsPremium    bool
}

// User is a domain entity representing one Telegram account ever seen.
// The profile fields mirror the last observed snapshot; no history is kept.
type User struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	IsBot        bool
	IsPremium    bool

	FirstSeenAt      time.Time
	LastActiveAt     time.Time
	Interactions     int64
	WallpapersViewed []string
}

func NewUser(p Profile) (*User, error) {
	if p.TelegramID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	u := &User{
		TelegramID:   p.TelegramID,
		FirstSeenAt:  now,
		LastActiveAt: now,
		Interactions: 1,
	}
	u.ApplyProfile(p)
	return u, nil
}

// ApplyProfile overwrites the mutable snapshot fields with the latest values.
func (u *User) ApplyProfile(p Profile) {
	u.Username = p.Username
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.LanguageCode = p.LanguageCode
	u.IsBot = p.IsBot
	u.IsPremium = p.IsPremium
}

// ViewWallpaper appends id to the viewed set if not already present.
// Returns true if the set changed.
func (u *User) ViewWallpaper(id string) bool {
	if id == "" {
		return false
	}
	for _, v := range u.WallpapersViewed {
		if v == id {
			return false
		}
	}
	u.WallpapersViewed = append(u.WallpapersViewed, id)
	return true
}

func (u *User) Touch() { u.LastActiveAt = time.Now() }

// DisplayName prefers @username, falling back to first/last name.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
