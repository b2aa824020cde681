package views

import (
	"strings"

	"github.com/a-h/templ"
)

func LoginPage(page Page, providers []string, username, errMsg string) templ.Component {
	page.Title = "Log in"
	return Layout(page, component(func(h *htmlWriter) {
		h.raw(`<h1>Log in</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/login">`)
		input(h, "Username", "text", "username", username, true)
		input(h, "Password", "password", "password", "", true)
		h.raw(`<button type="submit">Log in</button></form>`)

		for _, provider := range providers {
			h.raw(`<a class="button"`)
			h.attr("href", "/auth/"+provider)
			h.raw(`>Continue with `)
			h.text(strings.ToUpper(provider[:1]) + provider[1:])
			h.raw(`</a>`)
		}
		h.raw(`<p>No account yet? <a href="/signup">Sign up</a></p>`)
	}))
}

func SignupPage(page Page, username, email, errMsg string) templ.Component {
	page.Title = "Sign up"
	return Layout(page, component(func(h *htmlWriter) {
		h.raw(`<h1>Sign up</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/signup">`)
		input(h, "Username", "text", "username", username, true)
		input(h, "Email", "email", "email", email, false)
		input(h, "Password", "password", "password1", "", true)
		input(h, "Password confirmation", "password", "password2", "", true)
		h.raw(`<button type="submit">Create account</button></form>`)
	}))
}
