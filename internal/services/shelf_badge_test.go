package services

import (
	"testing"
	"time"

	"github.com/glowist/glowist-backend/internal/types"
)

func TestGetShelfBadge(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	days := func(n int) *time.Time {
		d := now.Add(time.Duration(n) * 24 * time.Hour)
		return &d
	}

	cases := []struct {
		name        string
		expiration  *time.Time
		opened      *time.Time
		status      string
		wantText    string
		wantWarning bool
	}{
		{
			name:        "expired",
			expiration:  days(-1),
			status:      types.ShelfStatusOpened,
			wantText:    "Expired",
			wantWarning: true,
		},
		{
			name:        "forty_days_rounds_to_one_month",
			expiration:  days(40),
			status:      types.ShelfStatusOpened,
			wantText:    "1 month",
			wantWarning: true,
		},
		{
			name:        "two_months_still_warns",
			expiration:  days(65),
			status:      types.ShelfStatusOpened,
			wantText:    "2 months",
			wantWarning: true,
		},
		{
			name:        "four_months_no_warning",
			expiration:  days(120),
			status:      types.ShelfStatusOpened,
			wantText:    "4 months",
			wantWarning: false,
		},
		{
			name:        "ten_days_shows_weeks",
			expiration:  days(10),
			status:      types.ShelfStatusOpened,
			wantText:    "1 week",
			wantWarning: true,
		},
		{
			name:        "two_days_ends_soon",
			expiration:  days(2),
			status:      types.ShelfStatusOpened,
			wantText:    "Ends soon",
			wantWarning: true,
		},
		{
			name:     "opened_today",
			opened:   days(0),
			status:   types.ShelfStatusOpened,
			wantText: "Added today",
		},
		{
			name:     "opened_one_day_ago",
			opened:   days(-1),
			status:   types.ShelfStatusOpened,
			wantText: "1 day ago",
		},
		{
			name:     "opened_five_days_ago",
			opened:   days(-5),
			status:   types.ShelfStatusOpened,
			wantText: "5 days ago",
		},
		{
			name:     "opened_seventy_days_ago",
			opened:   days(-70),
			status:   types.ShelfStatusOpened,
			wantText: "2 months ago",
		},
		{
			name:     "wishlist_fallback",
			status:   types.ShelfStatusWishlist,
			wantText: "Wishlist",
		},
		{
			name:     "empty_fallback",
			status:   types.ShelfStatusEmpty,
			wantText: "Finished",
		},
		{
			name:     "default_fallback",
			status:   types.ShelfStatusOpened,
			wantText: "On shelf",
		},
		{
			name:        "expiry_takes_priority_over_opened",
			expiration:  days(-2),
			opened:      days(-5),
			status:      types.ShelfStatusOpened,
			wantText:    "Expired",
			wantWarning: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GetShelfBadge(tc.expiration, tc.opened, tc.status, now)
			if got.Text != tc.wantText || got.IsWarning != tc.wantWarning {
				t.Fatalf("GetShelfBadge()={%q, %v}, want {%q, %v}", got.Text, got.IsWarning, tc.wantText, tc.wantWarning)
			}
		})
	}
}

func TestGetShelfBadgeDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	exp := now.Add(40 * 24 * time.Hour)
	first := GetShelfBadge(&exp, nil, types.ShelfStatusOpened, now)
	for i := 0; i < 10; i++ {
		again := GetShelfBadge(&exp, nil, types.ShelfStatusOpened, now)
		if again != first {
			t.Fatalf("classifier not deterministic: %v != %v", again, first)
		}
	}
}
