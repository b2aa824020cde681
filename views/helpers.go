package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/middleware"
	users "github.com/AdamBeresnev/goalit/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}

func GetProfile(ctx context.Context) *league.Profile {
	return middleware.GetProfileFromContext(ctx)
}

func priceLabel(cents *int64) string {
	if cents == nil {
		return "Free"
	}
	return league.FormatPrice(*cents)
}

var statusLabels = map[league.Status]string{
	league.StatusGoing:    "Going",
	league.StatusMaybe:    "Maybe",
	league.StatusNotGoing: "Not going",
	league.StatusWaiting:  "Waiting list",
}

func statusLabel(s league.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func spotsLabel(confirmed, max int) string {
	return fmt.Sprintf("%d / %d", confirmed, max)
}
