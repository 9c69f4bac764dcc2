// Package app holds the chat domain: users, teams, channels, posts and
// memberships. HTTP handlers and slash commands both call into it.
package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/appconfig"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/email"
	"github.com/parley-chat/parley-services/internal/ephemeral"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/internal/markdown"
	"github.com/parley-chat/parley-services/internal/metrics"
	"github.com/rs/zerolog"
)

// App wires the domain to its collaborators.
type App struct {
	Store     db.Store
	Events    events.Notifier
	Ephemeral ephemeral.Store
	Mailer    email.Sender
	Signer    *authn.Signer
	Markdown  *markdown.Renderer
	Config    *appconfig.Config
	Log       *zerolog.Logger

	clockMu sync.Mutex
	last    int64
	now     func() time.Time
}

// New returns an App. Nil collaborators are replaced by in-process defaults.
func New(cfg *appconfig.Config, store db.Store, signer *authn.Signer, log *zerolog.Logger) (*App, error) {
	if cfg == nil {
		cfg = appconfig.Default()
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	renderer, err := markdown.NewRenderer(0)
	if err != nil {
		return nil, err
	}
	return &App{
		Store:     store,
		Events:    events.Discard{},
		Ephemeral: ephemeral.NewMemoryStore(cfg.Commands.EphemeralTTL),
		Signer:    signer,
		Markdown:  renderer,
		Config:    cfg,
		Log:       log,
		now:       time.Now,
	}, nil
}

// NewID returns a 26 character lowercase id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:26]
}

// millis returns a strictly increasing millisecond timestamp so posts
// created in a burst keep their order.
func (a *App) millis() int64 {
	a.clockMu.Lock()
	defer a.clockMu.Unlock()

	ms := a.now().UnixNano() / int64(time.Millisecond)
	if ms <= a.last {
		ms = a.last + 1
	}
	a.last = ms
	return ms
}

func (a *App) publish(ctx context.Context, event events.Event) {
	if event.CreateAt == 0 {
		event.CreateAt = a.millis()
	}
	if err := a.Events.Publish(ctx, event); err != nil {
		metrics.RecordEventPublishError(event.Type)
		a.Log.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event")
	}
}
