package models

const (
	CommandResponseTypeEphemeral = "ephemeral"
	CommandResponseTypeInChannel = "in_channel"
)

// CommandArgs describes a single slash-command invocation.
type CommandArgs struct {
	UserID    string `json:"user_id"`
	TeamID    string `json:"team_id"`
	ChannelID string `json:"channel_id"`
	RootID    string `json:"root_id"`
	Command   string `json:"command"`
	SiteURL   string `json:"-"`
}

// CommandResponse is what a command provider hands back to the caller.
type CommandResponse struct {
	ResponseType string            `json:"response_type"`
	Text         string            `json:"text"`
	Type         string            `json:"type,omitempty"`
	Props        map[string]string `json:"props,omitempty"`
	GotoLocation string            `json:"goto_location,omitempty"`
}

// Ephemeral returns a response only the caller sees.
func Ephemeral(text string) *CommandResponse {
	return &CommandResponse{ResponseType: CommandResponseTypeEphemeral, Text: text}
}

// AutocompleteSuggestion is a single entry of the command suggestion list.
type AutocompleteSuggestion struct {
	Trigger     string `json:"trigger"`
	Hint        string `json:"hint"`
	Description string `json:"description"`
	DisplayName string `json:"display_name"`
}

// Suggestion returns the text shown in the suggestion list, e.g. "/shrug [message]".
func (s AutocompleteSuggestion) Suggestion() string {
	if s.Hint == "" {
		return "/" + s.Trigger
	}
	return "/" + s.Trigger + " " + s.Hint
}
