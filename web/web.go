// Package web serves the browser UI: login, channel view, thread view and
// the forms behind the message box and sidebar.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/middleware"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/commands"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// postView is a post plus what its header needs to link to the thread.
type postView struct {
	*models.RenderedPost
	TeamName string
}

// UI renders pages for browser sessions.
type UI struct {
	App      *app.App
	Commands *commands.Executor

	templates *template.Template
}

func New(a *app.App, exec *commands.Executor) (*UI, error) {
	ui := &UI{App: a, Commands: exec}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown": a.Markdown.Render,
		"clock": func(ms int64) string {
			return time.UnixMilli(ms).UTC().Format("15:04")
		},
		"postView": func(page *channelPage, post *models.RenderedPost) postView {
			return postView{RenderedPost: post, TeamName: page.Team.Name}
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	ui.templates = tmpl
	return ui, nil
}

// Register mounts the UI routes on r.
func (u *UI) Register(r *mux.Router) {
	static, _ := fs.Sub(staticFS, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	web := r.NewRoute().Subrouter()
	web.Use(middleware.WithLogger)
	web.Use(middleware.WithMetrics)

	web.HandleFunc("/login", u.loginPage).Methods(http.MethodGet)
	web.HandleFunc("/login", u.login).Methods(http.MethodPost)
	web.HandleFunc("/logout", u.logout).Methods(http.MethodGet, http.MethodPost)
	web.HandleFunc("/", u.session(u.home)).Methods(http.MethodGet)

	web.HandleFunc("/{team}/channels", u.session(u.createChannel)).Methods(http.MethodPost)
	web.HandleFunc("/{team}/channels/{channel}", u.session(u.channelPage)).Methods(http.MethodGet)
	web.HandleFunc("/{team}/channels/{channel}/posts", u.session(u.submitPost)).Methods(http.MethodPost)
	web.HandleFunc("/{team}/pl/{post-id}", u.session(u.threadPage)).Methods(http.MethodGet)
	web.HandleFunc("/{team}/messages", u.session(u.openDirect)).Methods(http.MethodPost)
	web.HandleFunc("/{team}/messages/@{username}", u.session(u.directPage)).Methods(http.MethodGet)
	web.HandleFunc("/{team}/suggestions", u.session(u.suggestions)).Methods(http.MethodGet)
}

// session requires a valid session cookie and stores its claims on the
// request. Anonymous visitors are sent to the login page.
func (u *UI) session(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		token, ok := middleware.TokenFromRequest(r)
		var claims authn.Claims
		var err error
		if ok {
			claims, err = u.App.Signer.ParseClaims(token)
		}
		if !ok || err != nil {
			if err != nil {
				logger.Debug().Err(err).Msg("invalid session cookie")
			}
			http.Redirect(w, r, "/login?redirect_to="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), middleware.TokenKey, token)
		ctx = context.WithValue(ctx, middleware.ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func userID(r *http.Request) string {
	claims, _ := middleware.Claims(r)
	return claims.UserID()
}

func (u *UI) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := u.templates.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("failed to render template")
	}
}

// fail renders an error page with the status carried by err.
func (u *UI) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := app.StatusOf(err)
	message := "Something went wrong."
	if appErr, ok := app.AsError(err); ok && status < http.StatusInternalServerError {
		message = appErr.Message
	} else {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	u.render(w, r, status, "error.html", map[string]interface{}{"Status": status, "Message": message})
}
