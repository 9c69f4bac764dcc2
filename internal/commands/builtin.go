package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/models"
)

const shrugSuffix = `¯\\\_(ツ)\_/¯`

// appUserError turns client-side domain failures into messages for the
// caller and passes everything else through.
func appUserError(err error) error {
	if appErr, ok := app.AsError(err); ok && appErr.Status < 500 {
		return &UserError{Text: appErr.Message}
	}
	return err
}

type statusProvider struct {
	trigger     string
	status      string
	text        string
	description string
}

func (p statusProvider) Trigger() string { return p.trigger }

func (p statusProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: p.trigger, Description: p.description, DisplayName: p.trigger}
}

func (p statusProvider) Execute(ctx context.Context, a *app.App, args *models.CommandArgs, _ string) (*models.CommandResponse, error) {
	if err := a.UpdateStatus(ctx, args.UserID, p.status); err != nil {
		return nil, appUserError(err)
	}
	return models.Ephemeral(p.text), nil
}

type echoProvider struct{}

func (echoProvider) Trigger() string { return "echo" }

func (echoProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "echo", Hint: "[message]", Description: "Echo back text from your account", DisplayName: "echo"}
}

func (echoProvider) Execute(_ context.Context, _ *app.App, _ *models.CommandArgs, message string) (*models.CommandResponse, error) {
	if message == "" {
		return nil, userError("A message must be provided with the /echo command.")
	}
	if len(message) > 1 && message[0] == '"' && strings.LastIndexByte(message, '"') > 0 {
		message = message[1:strings.LastIndexByte(message, '"')]
	}
	return &models.CommandResponse{ResponseType: models.CommandResponseTypeInChannel, Text: message}, nil
}

type helpProvider struct{}

func (helpProvider) Trigger() string { return "help" }

func (helpProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "help", Description: "Open the help page", DisplayName: "help"}
}

func (helpProvider) Execute(_ context.Context, a *app.App, _ *models.CommandArgs, _ string) (*models.CommandResponse, error) {
	return models.Ephemeral(fmt.Sprintf("Please see the [help page](%s) for the list of commands.", a.Config.Links.Help)), nil
}

type meProvider struct{}

func (meProvider) Trigger() string { return "me" }

func (meProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "me", Hint: "[message]", Description: "Do an action", DisplayName: "me"}
}

func (meProvider) Execute(_ context.Context, _ *app.App, _ *models.CommandArgs, message string) (*models.CommandResponse, error) {
	if message == "" {
		return nil, userError("A message must be provided with the /me command.")
	}
	return &models.CommandResponse{
		ResponseType: models.CommandResponseTypeInChannel,
		Type:         models.PostTypeMe,
		Text:         "*" + message + "*",
		Props:        map[string]string{models.PostPropFromCommand: "true", models.PostPropCommandTriggerName: "me"},
	}, nil
}

type shrugProvider struct{}

func (shrugProvider) Trigger() string { return "shrug" }

func (shrugProvider) Autocomplete() *models.AutocompleteSuggestion {
	return &models.AutocompleteSuggestion{Trigger: "shrug", Hint: "[message]", Description: `Adds ¯\_(ツ)_/¯ to your message`, DisplayName: "shrug"}
}

func (shrugProvider) Execute(_ context.Context, _ *app.App, _ *models.CommandArgs, message string) (*models.CommandResponse, error) {
	text := shrugSuffix
	if message != "" {
		text = message + " " + shrugSuffix
	}
	return &models.CommandResponse{
		ResponseType: models.CommandResponseTypeInChannel,
		Text:         text,
		Props:        map[string]string{models.PostPropFromCommand: "true", models.PostPropCommandTriggerName: "shrug"},
	}, nil
}
