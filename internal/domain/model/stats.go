package model

// StatsSummary is what /stats renders: user totals bucketed by first-seen
// windows plus the raw link-click count.
type StatsSummary struct {
	TotalUsers   int
	UsersToday   int
	Users7Days   int
	Users30Days  int
	PremiumUsers int
	TotalClicks  int
}

// UserInfo is the /userinfo view: the stored profile plus the derived
// per-user click count.
type UserInfo struct {
	User       *User
	LinkClicks int
}

// BroadcastReport tallies one broadcast run. A failed send never aborts the
// remaining recipients, so Sent+Failed == Total once the run finishes.
type BroadcastReport struct {
	Total  int
	Sent   int
	Failed int
}
