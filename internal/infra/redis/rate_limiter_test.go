//go:build !integration

package redis

import "testing"

func TestUserCommandKey(t *testing.T) {
	if got := UserCommandKey(42, "stats"); got != "rate_limit:42:stats" {
		t.Errorf("UserCommandKey = %q", got)
	}
	// Distinct commands must not share a window.
	if UserCommandKey(42, "stats") == UserCommandKey(42, "broadcast") {
		t.Error("keys collide across commands")
	}
	if UserCommandKey(1, "stats") == UserCommandKey(2, "stats") {
		t.Error("keys collide across users")
	}
}
