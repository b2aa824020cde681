package league

import (
	"fmt"
	"strconv"
	"strings"
)

// maxPriceCents mirrors a 5 digit, 2 decimal place amount.
const maxPriceCents = 99999

func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ParsePrice reads an optional per-player price such as "7", "7.5" or "7.50".
// An empty string means the match is free and returns nil.
func ParsePrice(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	invalid := NewValidationError("price per player must be a positive amount with at most two decimals")

	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" || len(frac) > 2 || (hasFrac && frac == "") {
		return nil, invalid
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return nil, invalid
	}
	var cents int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return nil, invalid
		}
	}
	total := units*100 + cents
	if total > maxPriceCents {
		return nil, invalid
	}
	return &total, nil
}
