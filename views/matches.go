package views

import (
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/AdamBeresnev/goalit/internal/service"
	"github.com/AdamBeresnev/goalit/internal/video"
	"github.com/a-h/templ"
)

func IndexPage(page Page, list *service.MatchPage) templ.Component {
	page.Title = "Matches"
	return Layout(page, component(func(h *htmlWriter) {
		h.raw(`<h1>Upcoming and past matches</h1>`)
		if len(list.Matches) == 0 {
			h.raw(`<p>No matches yet. <a href="/matches/new">Organize one</a>.</p>`)
			return
		}
		h.raw(`<ul class="match-list">`)
		for _, m := range list.Matches {
			h.raw(`<li><a`)
			h.attr("href", "/matches/"+m.Match.ID.String())
			h.raw(`><strong>`)
			h.text(m.Match.Title)
			h.raw(`</strong> `)
			h.text(m.Match.Date + " " + m.Match.Time + " · " + m.Match.Location)
			h.raw(`</a> <span class="spots">`)
			h.text(spotsLabel(m.ConfirmedCount, m.Match.MaxPlayers))
			h.raw(`</span>`)
			if m.Match.Finalized {
				h.raw(` <span class="badge">Final</span>`)
			}
			h.raw(`</li>`)
		}
		h.raw(`</ul><div class="pagination">`)
		if list.HasPrevious() {
			h.raw(`<a`)
			h.attr("href", "/?page="+itoa(list.Page-1))
			h.raw(`>Previous</a>`)
		}
		h.raw(`<span>Page `)
		h.text(itoa(list.Page) + " of " + itoa(list.TotalPages))
		h.raw(`</span>`)
		if list.HasNext() {
			h.raw(`<a`)
			h.attr("href", "/?page="+itoa(list.Page+1))
			h.raw(`>Next</a>`)
		}
		h.raw(`</div>`)
	}))
}

func NewMatchPage(page Page, in service.MatchInput, errMsg string) templ.Component {
	page.Title = "New match"
	return Layout(page, component(func(h *htmlWriter) {
		h.raw(`<h1>Organize a match</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/matches">`)
		input(h, "Title", "text", "title", in.Title, false)
		input(h, "Date", "date", "date", in.Date, true)
		input(h, "Kick-off", "time", "time", in.Time, true)
		input(h, "Location", "text", "location", in.Location, true)
		input(h, "Price per player", "text", "price_per_player", in.PricePerPlayer, false)
		maxPlayers := ""
		if in.MaxPlayers > 0 {
			maxPlayers = itoa(in.MaxPlayers)
		}
		input(h, "Max players", "number", "max_players", maxPlayers, false)
		h.raw(`<label>Notes<textarea name="notes">`)
		h.text(in.Notes)
		h.raw(`</textarea></label><button type="submit">Create match</button></form>`)
	}))
}

type MatchPageData struct {
	Detail      *service.MatchDetail
	Roster      RosterData
	Comments    []service.CommentView
	Highlights  []service.HighlightView
	BadgeTypes  []league.BadgeType
	IsOrganizer bool
}

func MatchPage(page Page, data MatchPageData) templ.Component {
	match := data.Detail.Match
	page.Title = match.Title
	base := "/matches/" + match.ID.String()

	return Layout(page, component(func(h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(match.Title)
		h.raw(`</h1><p class="meta">`)
		h.text(match.Date + " " + match.Time + " · " + match.Location + " · " + priceLabel(match.PricePerPlayerCents))
		h.raw(`</p><p>Confirmed `)
		h.text(spotsLabel(data.Detail.ConfirmedCount, match.MaxPlayers))
		if data.Detail.Creator != nil {
			h.raw(` · organized by `)
			h.text(data.Detail.Creator.DisplayName())
		}
		h.raw(`</p>`)
		if match.Notes != "" {
			h.raw(`<p class="notes">`)
			h.text(match.Notes)
			h.raw(`</p>`)
		}

		if match.Finalized {
			h.raw(`<p class="badge">Final result</p>`)
		} else {
			participationForms(h, base, data.Detail.Own)
		}

		roster(h, base, data)

		if data.IsOrganizer && !match.Finalized {
			organizerForms(h, base, data)
		}
		if data.IsOrganizer && match.Finalized && len(data.BadgeTypes) > 0 {
			badgeForm(h, base, data)
		}

		highlights(h, base, data.Highlights)
		comments(h, base, data.Comments)
	}))
}

func statusSelect(h *htmlWriter, current league.Status) {
	h.raw(`<select name="status">`)
	for _, s := range []league.Status{league.StatusGoing, league.StatusMaybe, league.StatusNotGoing} {
		h.raw(`<option`)
		h.attr("value", string(s))
		if s == current {
			h.raw(" selected")
		}
		h.raw(`>`)
		h.text(statusLabel(s))
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
}

func participationForms(h *htmlWriter, base string, own *league.Participation) {
	h.raw(`<section class="participation">`)
	if own == nil {
		h.raw(`<form method="post"`)
		h.attr("action", base+"/join")
		h.raw(`>`)
		statusSelect(h, league.StatusGoing)
		h.raw(`<button type="submit">Join</button></form>`)
	} else {
		h.raw(`<p>Your status: <strong>`)
		h.text(statusLabel(own.Status))
		h.raw(`</strong></p><form method="post"`)
		h.attr("action", base+"/set-status")
		h.raw(`>`)
		statusSelect(h, own.Status)
		h.raw(`<button type="submit">Update</button></form><form method="post"`)
		h.attr("action", base+"/leave")
		h.raw(`><button type="submit">Leave</button></form>`)
	}
	h.raw(`</section>`)
}

func playerList(h *htmlWriter, title string, players []league.Participant, finalized bool) {
	if len(players) == 0 {
		return
	}
	h.raw(`<h3>`)
	h.text(title)
	h.raw(`</h3><ul>`)
	for _, p := range players {
		h.raw(`<li><a`)
		h.attr("href", "/players/"+p.PlayerID.String())
		h.raw(`>`)
		h.text(p.Player.DisplayName())
		h.raw(`</a>`)
		if finalized {
			h.raw(` <span class="points">`)
			h.text(itoa(league.PointsEarned(p.Participation)) + " pts")
			h.raw(`</span>`)
		}
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

func roster(h *htmlWriter, base string, data MatchPageData) {
	finalized := data.Detail.Match.Finalized
	h.raw(`<section class="roster"><h2>Players</h2>`)
	for _, t := range data.Roster.Teams {
		title := t.Team.Name
		if finalized {
			title += " (" + itoa(t.Team.Score) + ")"
		}
		playerList(h, title, t.Players, finalized)
		if len(t.Players) == 0 {
			h.raw(`<h3>`)
			h.text(title)
			h.raw(`</h3><p>No players yet.</p>`)
		}
		if data.IsOrganizer && !finalized {
			h.raw(`<form method="post"`)
			h.attr("action", base+"/teams/"+t.Team.ID.String()+"/delete")
			h.raw(`><button type="submit">Remove team</button></form>`)
		}
	}
	playerList(h, "Without a team", data.Roster.Unassigned, finalized)
	playerList(h, "Maybe", data.Roster.Maybe, false)
	playerList(h, "Waiting list", data.Roster.Waiting, false)
	playerList(h, "Not going", data.Roster.NotGoing, false)
	h.raw(`</section>`)
}

func organizerForms(h *htmlWriter, base string, data MatchPageData) {
	h.raw(`<section class="organizer"><h2>Organizer</h2><form method="post"`)
	h.attr("action", base+"/teams")
	h.raw(`>`)
	input(h, "Team name", "text", "name", "", true)
	h.raw(`<button type="submit">Add team</button></form><form method="post"`)
	h.attr("action", base+"/randomize-teams")
	h.raw(`><button type="submit">Randomize teams</button></form>`)

	going := data.Roster.Going()
	if len(going) > 0 && len(data.Roster.Teams) > 0 {
		h.raw(`<form method="post"`)
		h.attr("action", base+"/set-team")
		h.raw(`><select name="participation_id">`)
		for _, p := range going {
			h.raw(`<option`)
			h.attr("value", p.ID.String())
			h.raw(`>`)
			h.text(p.Player.DisplayName())
			h.raw(`</option>`)
		}
		h.raw(`</select><select name="team_id"><option value="">No team</option>`)
		for _, t := range data.Roster.Teams {
			h.raw(`<option`)
			h.attr("value", t.Team.ID.String())
			h.raw(`>`)
			h.text(t.Team.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select><button type="submit">Set team</button></form>`)
	}

	finalizeForm(h, base, data, going)

	h.raw(`<form method="post"`)
	h.attr("action", base+"/delete")
	h.raw(`><button type="submit" class="danger">Delete match</button></form></section>`)
}

func finalizeForm(h *htmlWriter, base string, data MatchPageData, going []league.Participant) {
	h.raw(`<form method="post" class="finalize"`)
	h.attr("action", base+"/finalize")
	h.raw(`><h3>Final result</h3>`)
	for _, t := range data.Roster.Teams {
		input(h, t.Team.Name+" score", "number", "score_"+t.Team.ID.String(), itoa(t.Team.Score), false)
	}
	h.raw(`<table><thead><tr><th>Player</th><th>Played</th><th>No-show</th><th>Goals</th><th>Assists</th><th>MVP</th><th>Paid</th></tr></thead><tbody>`)
	for _, p := range going {
		id := p.ID.String()
		h.raw(`<tr><td>`)
		h.text(p.Player.DisplayName())
		h.raw(`</td>`)
		checkboxCell(h, "played_"+id, p.ActuallyPlayed)
		checkboxCell(h, "no_show_"+id, p.NoShow)
		numberCell(h, "goals_"+id, p.Goals)
		numberCell(h, "assists_"+id, p.Assists)
		checkboxCell(h, "mvp_"+id, p.IsMVP)
		checkboxCell(h, "paid_"+id, p.HasPaid)
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table><button type="submit">Finalize match</button></form>`)
}

func checkboxCell(h *htmlWriter, name string, checked bool) {
	h.raw(`<td><input type="checkbox"`)
	h.attr("name", name)
	if checked {
		h.raw(" checked")
	}
	h.raw(`></td>`)
}

func numberCell(h *htmlWriter, name string, value int) {
	h.raw(`<td><input type="number" min="0"`)
	h.attr("name", name)
	h.attr("value", itoa(value))
	h.raw(`></td>`)
}

func badgeForm(h *htmlWriter, base string, data MatchPageData) {
	h.raw(`<section><h2>Award a badge</h2><form method="post"`)
	h.attr("action", base+"/badges")
	h.raw(`><select name="player_id">`)
	for _, p := range data.Detail.Participants {
		h.raw(`<option`)
		h.attr("value", p.PlayerID.String())
		h.raw(`>`)
		h.text(p.Player.DisplayName())
		h.raw(`</option>`)
	}
	h.raw(`</select><select name="badge_code">`)
	for _, b := range data.BadgeTypes {
		h.raw(`<option`)
		h.attr("value", b.Code)
		h.raw(`>`)
		h.text(b.Name)
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
	input(h, "Period start", "date", "period_start", "", false)
	input(h, "Period end", "date", "period_end", "", false)
	h.raw(`<button type="submit">Award</button></form></section>`)
}

func highlights(h *htmlWriter, base string, items []service.HighlightView) {
	h.raw(`<section class="highlights"><h2>Highlights</h2>`)
	for _, hl := range items {
		h.raw(`<article>`)
		switch hl.Embed.Kind {
		case video.EmbedYouTube:
			h.raw(`<iframe allowfullscreen`)
			h.attr("src", string(templ.URL(hl.Embed.URL)))
			h.raw(`></iframe>`)
		case video.EmbedVideo:
			h.raw(`<video controls`)
			h.attr("src", string(templ.URL(hl.Embed.URL)))
			h.raw(`></video>`)
		case video.EmbedLink:
			h.raw(`<a rel="noopener"`)
			h.attr("href", string(templ.URL(hl.Embed.URL)))
			h.raw(`>`)
			h.text(hl.Embed.URL)
			h.raw(`</a>`)
		}
		if hl.Description != "" {
			h.raw(`<p>`)
			h.text(hl.Description)
			h.raw(`</p>`)
		}
		byline(h, hl.Owner)
		h.raw(`</article>`)
	}
	h.raw(`<form method="post"`)
	h.attr("action", base+"/highlights")
	h.raw(`>`)
	input(h, "Video link", "url", "media_link", "", false)
	input(h, "Description", "text", "description", "", false)
	h.raw(`<button type="submit">Add highlight</button></form></section>`)
}

func comments(h *htmlWriter, base string, items []service.CommentView) {
	h.raw(`<section class="comments"><h2>Comments</h2>`)
	for _, c := range items {
		h.raw(`<article><p>`)
		h.text(c.Text)
		h.raw(`</p>`)
		byline(h, c.Author)
		h.raw(`</article>`)
	}
	h.raw(`<form method="post"`)
	h.attr("action", base+"/comments")
	h.raw(`><textarea name="text" required></textarea><button type="submit">Comment</button></form></section>`)
}

func byline(h *htmlWriter, author *league.Profile) {
	h.raw(`<small>`)
	if author == nil {
		h.raw(`former player`)
	} else {
		h.text(author.DisplayName())
	}
	h.raw(`</small>`)
}
