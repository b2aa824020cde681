package views

import (
	"github.com/a-h/templ"
)

func Layout(page Page, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		if page.Title != "" {
			h.text(page.Title)
			h.raw(" · ")
		}
		h.raw(`goalit</title><link rel="stylesheet" href="/static/style.css"></head><body>`)

		h.raw(`<nav><a href="/" class="brand">goalit</a>`)
		if page.Profile != nil {
			h.raw(`<a href="/matches/new">New match</a><a href="/profile">`)
			h.text(page.Profile.DisplayName())
			h.raw(`</a><form method="post" action="/logout" class="inline"><button type="submit">Log out</button></form>`)
		} else {
			h.raw(`<a href="/login">Log in</a><a href="/signup">Sign up</a>`)
		}
		h.raw(`</nav>`)

		for _, f := range page.Flashes {
			h.raw(`<div`)
			h.attr("class", "flash flash-"+string(f.Level))
			h.raw(`>`)
			h.text(f.Message)
			h.raw(`</div>`)
		}

		h.raw(`<main>`)
		h.render(body)
		h.raw(`</main></body></html>`)
	})
}

// formError renders a validation message above a form.
func formError(h *htmlWriter, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="form-error">`)
	h.text(msg)
	h.raw(`</p>`)
}

func input(h *htmlWriter, label, kind, name, value string, required bool) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input`)
	h.attr("type", kind)
	h.attr("name", name)
	h.attr("value", value)
	if required {
		h.raw(" required")
	}
	h.raw(`></label>`)
}
