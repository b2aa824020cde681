package views

import (
	"context"
	"io"
	"net/http"

	"github.com/AdamBeresnev/goalit/internal/httputil"
	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
)

func Render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	RenderStatus(w, r, http.StatusOK, component)
}

func RenderStatus(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		// Headers are already sent
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render page")
	}
}

// Page is the chrome every full page shares.
type Page struct {
	Title   string
	Profile *league.Profile
	Flashes []httputil.Flash
}

// htmlWriter stops at the first write error.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}
