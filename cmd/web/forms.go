package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/service"
	"github.com/AdamBeresnev/goalit/internal/utils"
	"github.com/google/uuid"
)

var attendanceFields = []string{"played_", "no_show_", "goals_", "assists_", "mvp_", "paid_"}

// parseFinalizeForm reads score_<team>, played_<participation>,
// no_show_<participation> and the optional stat fields. Every participation
// named by any field gets a record; unchecked boxes mean false. A score that
// is not a whole number is skipped so the team keeps its prior score.
func parseFinalizeForm(form url.Values) (service.FinalizeInput, error) {
	in := service.FinalizeInput{
		TeamScores: map[uuid.UUID]int{},
		Attendance: map[uuid.UUID]service.AttendanceRecord{},
	}

	ids := map[uuid.UUID]bool{}
	for key, values := range form {
		if raw, ok := strings.CutPrefix(key, "score_"); ok {
			teamID, err := uuid.Parse(raw)
			if err != nil {
				return in, league.NewValidationError("unknown team in the result")
			}
			value := strings.TrimSpace(firstValue(values))
			if value == "" {
				continue
			}
			score, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			in.TeamScores[teamID] = score
			continue
		}
		for _, prefix := range attendanceFields {
			if raw, ok := strings.CutPrefix(key, prefix); ok {
				id, err := uuid.Parse(raw)
				if err != nil {
					return in, league.NewValidationError("unknown player in the result")
				}
				ids[id] = true
				break
			}
		}
	}

	for id := range ids {
		suffix := id.String()
		rec := service.AttendanceRecord{
			Played: checked(form, "played_"+suffix),
			NoShow: checked(form, "no_show_"+suffix),
			MVP:    utils.Ptr(checked(form, "mvp_"+suffix)),
			Paid:   utils.Ptr(checked(form, "paid_"+suffix)),
		}
		var err error
		if rec.Goals, err = optionalInt(form, "goals_"+suffix, "goals"); err != nil {
			return in, err
		}
		if rec.Assists, err = optionalInt(form, "assists_"+suffix, "assists"); err != nil {
			return in, err
		}
		in.Attendance[id] = rec
	}
	return in, nil
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func checked(form url.Values, key string) bool {
	switch form.Get(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

func optionalInt(form url.Values, key, label string) (*int, error) {
	n, err := utils.IntOrNil(form.Get(key))
	if err != nil {
		return nil, league.NewValidationError(label + " must be a whole number")
	}
	return n, nil
}

func matchInputFromForm(form url.Values) (service.MatchInput, error) {
	in := service.MatchInput{
		Title:          strings.TrimSpace(form.Get("title")),
		Date:           strings.TrimSpace(form.Get("date")),
		Time:           strings.TrimSpace(form.Get("time")),
		Location:       strings.TrimSpace(form.Get("location")),
		PricePerPlayer: strings.TrimSpace(form.Get("price_per_player")),
		Notes:          strings.TrimSpace(form.Get("notes")),
	}
	maxPlayers, err := utils.IntOrNil(form.Get("max_players"))
	if err != nil {
		return in, league.NewValidationError("max players must be a whole number")
	}
	in.MaxPlayers = utils.OrZero(maxPlayers)
	return in, nil
}
