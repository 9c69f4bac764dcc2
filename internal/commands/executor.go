package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/metrics"
	"github.com/parley-chat/parley-services/internal/ratelimit"
	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog"
)

const rateLimitedText = "You are sending commands too quickly. Please wait a moment and try again."

// Executor runs slash commands on behalf of users.
type Executor struct {
	App      *app.App
	Registry *Registry
	Limiter  ratelimit.Limiter
}

func NewExecutor(a *app.App, registry *Registry, limiter ratelimit.Limiter) *Executor {
	if limiter == nil {
		limiter = ratelimit.Noop
	}
	return &Executor{App: a, Registry: registry, Limiter: limiter}
}

// Execute parses and runs args.Command. Ephemeral responses are stored for
// the caller and in-channel responses are posted as the caller. Unknown
// commands and rate limiting are returned as *app.Error.
func (e *Executor) Execute(ctx context.Context, args *models.CommandArgs) (*models.CommandResponse, error) {
	log := zerolog.Ctx(ctx)
	start := time.Now()

	trigger, message, err := Parse(args.Command)
	if err != nil {
		return nil, app.NewError(app.ErrIDInvalidPost, "Invalid slash command.", http.StatusBadRequest)
	}
	provider, ok := e.Registry.Get(trigger)
	if !ok {
		metrics.RecordCommand("unknown", metrics.OutcomeNotFound, time.Since(start))
		return nil, app.NewError(app.ErrIDCommandNotFound, fmt.Sprintf("Command with a trigger of '/%s' not found.", trigger), http.StatusNotFound)
	}

	// A limiter that cannot answer lets nothing through.
	allowed, err := e.Limiter.Take(ctx, args.UserID)
	if err != nil {
		metrics.RecordRateLimitTakeError()
		log.Warn().Err(err).Msg("error taking from command rate limiter")
		allowed = false
	}
	if !allowed {
		metrics.RecordCommand(trigger, metrics.OutcomeRateLimited, time.Since(start))
		return nil, app.NewError(app.ErrIDCommandRateLimited, rateLimitedText, http.StatusTooManyRequests)
	}

	resp, err := provider.Execute(ctx, e.App, args, message)
	outcome := metrics.OutcomeOK
	var userErr *UserError
	switch {
	case errors.As(err, &userErr):
		outcome = metrics.OutcomeUserError
		resp, err = models.Ephemeral(userErr.Text), nil
	case err != nil:
		metrics.RecordCommand(trigger, metrics.OutcomeError, time.Since(start))
		log.Error().Err(err).Str("trigger", trigger).Msg("slash command failed")
		return nil, err
	}
	if resp == nil {
		resp = &models.CommandResponse{}
	}

	if err := e.handleResponse(ctx, args, resp); err != nil {
		metrics.RecordCommand(trigger, metrics.OutcomeError, time.Since(start))
		return nil, err
	}
	metrics.RecordCommand(trigger, outcome, time.Since(start))
	log.Debug().Str("trigger", trigger).Str("outcome", outcome).Msg("slash command executed")
	return resp, nil
}

func (e *Executor) handleResponse(ctx context.Context, args *models.CommandArgs, resp *models.CommandResponse) error {
	if resp.Text == "" {
		return nil
	}
	switch resp.ResponseType {
	case models.CommandResponseTypeInChannel:
		_, err := e.App.CreatePost(ctx, &models.Post{
			ChannelID: args.ChannelID,
			UserID:    args.UserID,
			RootID:    args.RootID,
			Message:   resp.Text,
			Type:      resp.Type,
			Props:     resp.Props,
		})
		return err
	default:
		resp.ResponseType = models.CommandResponseTypeEphemeral
		_, err := e.App.SendEphemeral(ctx, args.UserID, args.ChannelID, args.RootID, resp.Text)
		return err
	}
}
