package views

import (
	"sort"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/google/uuid"
)

type TeamRoster struct {
	Team    league.Team
	Players []league.Participant
}

// RosterData is a match's participants laid out the way the detail page
// shows them.
type RosterData struct {
	Teams      []TeamRoster
	Unassigned []league.Participant
	Maybe      []league.Participant
	Waiting    []league.Participant
	NotGoing   []league.Participant
	TeamNames  map[uuid.UUID]string
}

func PrepareRosterData(teams []league.Team, participants []league.Participant) RosterData {
	data := RosterData{TeamNames: make(map[uuid.UUID]string, len(teams))}
	index := make(map[uuid.UUID]int, len(teams))
	for i, t := range teams {
		index[t.ID] = i
		data.TeamNames[t.ID] = t.Name
		data.Teams = append(data.Teams, TeamRoster{Team: t})
	}

	for _, p := range participants {
		switch p.Status {
		case league.StatusGoing:
			if p.TeamID != nil {
				if i, ok := index[*p.TeamID]; ok {
					data.Teams[i].Players = append(data.Teams[i].Players, p)
					continue
				}
			}
			data.Unassigned = append(data.Unassigned, p)
		case league.StatusMaybe:
			data.Maybe = append(data.Maybe, p)
		case league.StatusWaiting:
			data.Waiting = append(data.Waiting, p)
		default:
			data.NotGoing = append(data.NotGoing, p)
		}
	}

	// Queue order, longest waiting first
	sort.SliceStable(data.Waiting, func(i, j int) bool {
		a, b := data.Waiting[i].WaitingSince, data.Waiting[j].WaitingSince
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})

	return data
}

// Going lists every confirmed player, assigned or not.
func (d RosterData) Going() []league.Participant {
	var going []league.Participant
	for _, t := range d.Teams {
		going = append(going, t.Players...)
	}
	return append(going, d.Unassigned...)
}
