// Package commands implements the built-in slash commands: parsing,
// the provider registry, autocomplete and execution.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/models"
)

var ErrNotACommand = errors.New("not a slash command")

// Provider is a single built-in command.
type Provider interface {
	Trigger() string
	Autocomplete() *models.AutocompleteSuggestion
	Execute(ctx context.Context, a *app.App, args *models.CommandArgs, message string) (*models.CommandResponse, error)
}

// UserError is a failure shown to the caller as an ephemeral message.
type UserError struct {
	Text string
}

func (e *UserError) Error() string {
	return e.Text
}

func userError(format string, args ...any) error {
	if len(args) == 0 {
		return &UserError{Text: format}
	}
	return &UserError{Text: fmt.Sprintf(format, args...)}
}

// Parse splits a slash command into its lowercase trigger and the trimmed
// remainder. Interior whitespace of the remainder is kept.
func Parse(text string) (trigger, message string, err error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", ErrNotACommand
	}
	text = text[1:]

	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		end = len(text)
	}
	trigger = strings.ToLower(text[:end])
	if trigger == "" || strings.Contains(trigger, "/") {
		return "", "", ErrNotACommand
	}
	return trigger, strings.TrimSpace(text[end:]), nil
}

// Registry holds the providers by trigger.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Trigger()] = p
	}
	return r
}

// DefaultRegistry returns a registry with every built-in command.
func DefaultRegistry() *Registry {
	return NewRegistry(
		statusProvider{trigger: "away", status: models.StatusAway, text: "You are now away", description: "Set your status away"},
		statusProvider{trigger: "dnd", status: models.StatusDND, text: "Do Not Disturb is enabled. You will not receive notifications until Do Not Disturb is turned off.", description: "Do not disturb disables desktop and mobile push notifications."},
		statusProvider{trigger: "offline", status: models.StatusOffline, text: "You are now offline", description: "Set your status offline"},
		statusProvider{trigger: "online", status: models.StatusOnline, text: "You are now online", description: "Set your status online"},
		echoProvider{},
		groupMsgProvider{},
		headerProvider{},
		helpProvider{},
		inviteProvider{},
		invitePeopleProvider{},
		joinProvider{},
		kickProvider{trigger: "kick"},
		kickProvider{trigger: "remove"},
		leaveProvider{},
		meProvider{},
		msgProvider{},
		muteProvider{},
		purposeProvider{},
		renameProvider{},
		shrugProvider{},
	)
}

// Get returns the provider for trigger.
func (r *Registry) Get(trigger string) (Provider, bool) {
	p, ok := r.providers[trigger]
	return p, ok
}

// Autocomplete lists every command sorted by trigger.
func (r *Registry) Autocomplete() []models.AutocompleteSuggestion {
	out := make([]models.AutocompleteSuggestion, 0, len(r.providers))
	for _, p := range r.providers {
		if s := p.Autocomplete(); s != nil {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger < out[j].Trigger })
	return out
}

// Suggest returns the entries matching what has been typed so far. Once the
// trigger is followed by a space only the exact trigger is listed.
func (r *Registry) Suggest(text string) []models.AutocompleteSuggestion {
	if !strings.HasPrefix(text, "/") {
		return nil
	}
	typed := strings.ToLower(strings.TrimPrefix(text, "/"))
	exact := false
	if i := strings.IndexFunc(typed, unicode.IsSpace); i >= 0 {
		typed, exact = typed[:i], true
	}

	var out []models.AutocompleteSuggestion
	for _, s := range r.Autocomplete() {
		if (exact && s.Trigger == typed) || (!exact && strings.HasPrefix(s.Trigger, typed)) {
			out = append(out, s)
		}
	}
	return out
}

// channelHandleError is returned when a channel argument does not resolve
// to a channel handle.
func channelHandleError(a *app.App, arg string) error {
	return userError("Could not find the channel %s. Please use the [channel handle](%s) to identify channels.", arg, a.Config.Links.ChannelHandleHelp)
}

// lookupChannel resolves a channel argument (with or without ~) in the
// caller's team. Private, direct and group channels the caller does not
// belong to are treated as missing.
func lookupChannel(ctx context.Context, a *app.App, args *models.CommandArgs, arg string) (*models.Channel, error) {
	arg = strings.TrimSpace(arg)
	channel, err := a.GetChannelByName(ctx, args.TeamID, arg)
	if err != nil {
		if app.HasID(err, app.ErrIDChannelNotFound) {
			return nil, channelHandleError(a, strings.TrimPrefix(arg, "~"))
		}
		return nil, err
	}
	if channel.Type != models.ChannelOpen {
		ok, err := a.IsChannelMember(ctx, channel.ID, args.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, channelHandleError(a, strings.TrimPrefix(arg, "~"))
		}
	}
	return channel, nil
}

// channelURL is the relative location of a channel in the web UI.
func channelURL(ctx context.Context, a *app.App, teamID string, channel *models.Channel) (string, error) {
	team, err := a.GetTeam(ctx, teamID)
	if err != nil {
		return "", err
	}
	return "/" + team.Name + "/channels/" + channel.Name, nil
}

func messageText(err error) string {
	if appErr, ok := app.AsError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
