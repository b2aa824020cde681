package views

import (
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/service"
	"github.com/a-h/templ"
)

type ProfilePageData struct {
	Player *league.Profile
	Points *service.PlayerPoints
	Badges []league.AwardedBadge
	// Editable is set on the viewer's own profile.
	Editable bool
	Error    string
}

var positions = []league.Position{
	league.PositionAny,
	league.PositionGoalkeeper,
	league.PositionDefender,
	league.PositionMidfielder,
	league.PositionForward,
}

func ProfilePage(page Page, data ProfilePageData) templ.Component {
	player := data.Player
	page.Title = player.DisplayName()
	return Layout(page, component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(player.DisplayName())
		h.raw(`</h1><p class="meta">@`)
		h.text(player.Username + " · " + player.Position.Label())
		h.raw(`</p>`)
		if player.Bio != "" {
			h.raw(`<p>`)
			h.text(player.Bio)
			h.raw(`</p>`)
		}
		if data.Points != nil {
			h.raw(`<p class="points">`)
			h.text(itoa(data.Points.Total) + " points over " + itoa(data.Points.Matches) + " matches")
			h.raw(`</p>`)
		}

		if len(data.Badges) > 0 {
			h.raw(`<h2>Badges</h2><ul>`)
			for _, b := range data.Badges {
				h.raw(`<li><strong>`)
				h.text(b.Type.Name)
				h.raw(`</strong>`)
				if b.PeriodStart != nil && b.PeriodEnd != nil {
					h.raw(` `)
					h.text(*b.PeriodStart + " to " + *b.PeriodEnd)
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}

		if !data.Editable {
			return
		}
		h.raw(`<h2>Edit profile</h2>`)
		formError(h, data.Error)
		h.raw(`<form method="post" action="/profile">`)
		input(h, "Nickname", "text", "nickname", player.Nickname, false)
		h.raw(`<label>Preferred position<select name="preferred_position">`)
		for _, p := range positions {
			h.raw(`<option`)
			h.attr("value", string(p))
			if p == player.Position {
				h.raw(" selected")
			}
			h.raw(`>`)
			h.text(p.Label())
			h.raw(`</option>`)
		}
		h.raw(`</select></label><label>Bio<textarea name="bio">`)
		h.text(player.Bio)
		h.raw(`</textarea></label><button type="submit">Save</button></form>`)
	}))
}
