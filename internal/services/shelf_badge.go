package services

import (
	"fmt"
	"math"
	"time"

	"github.com/glowist/glowist-backend/internal/types"
)

// ShelfBadge is the short freshness/status summary shown on a shelf item.
type ShelfBadge struct {
	Text      string `json:"text"`
	IsWarning bool   `json:"is_warning"`
}

// GetShelfBadge classifies a shelf item for display. Priority order: expiry
// (past, then months/weeks remaining on a 30-day/7-day basis, rounded), days
// since opening (whole days), then status. Pure function of its arguments.
func GetShelfBadge(expirationDate, dateOpened *time.Time, status string, now time.Time) ShelfBadge {
	if expirationDate != nil {
		exp := *expirationDate
		if exp.Before(now) {
			return ShelfBadge{Text: "Expired", IsWarning: true}
		}
		remaining := exp.Sub(now)
		monthsLeft := int(math.Round(remaining.Hours() / (24 * 30)))
		weeksLeft := int(math.Round(remaining.Hours() / (24 * 7)))
		if monthsLeft >= 1 {
			return ShelfBadge{
				Text:      pluralize(monthsLeft, "month"),
				IsWarning: monthsLeft <= 2,
			}
		}
		if weeksLeft >= 1 {
			return ShelfBadge{Text: pluralize(weeksLeft, "week"), IsWarning: true}
		}
		return ShelfBadge{Text: "Ends soon", IsWarning: true}
	}

	if dateOpened != nil {
		daysAgo := int(now.Sub(*dateOpened).Hours() / 24)
		switch {
		case daysAgo <= 0:
			return ShelfBadge{Text: "Added today"}
		case daysAgo == 1:
			return ShelfBadge{Text: "1 day ago"}
		case daysAgo < 30:
			return ShelfBadge{Text: fmt.Sprintf("%d days ago", daysAgo)}
		default:
			return ShelfBadge{Text: pluralize(daysAgo/30, "month") + " ago"}
		}
	}

	switch status {
	case types.ShelfStatusWishlist:
		return ShelfBadge{Text: "Wishlist"}
	case types.ShelfStatusEmpty:
		return ShelfBadge{Text: "Finished"}
	}
	return ShelfBadge{Text: "On shelf"}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
