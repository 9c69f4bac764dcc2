package models

const (
	PostTypeDefault            = ""
	PostTypeMe                 = "me"
	PostTypeAddToChannel       = "system_add_to_channel"
	PostTypeJoinChannel        = "system_join_channel"
	PostTypeLeaveChannel       = "system_leave_channel"
	PostTypeRemoveFromChannel  = "system_remove_from_channel"
	PostTypeDisplayNameChange  = "system_displayname_change"
	PostTypeHeaderChange       = "system_header_change"
	PostTypePurposeChange      = "system_purpose_change"
	PostTypeEphemeral          = "system_ephemeral"
	PostMessageMaxRunes        = 16383
	PostPropUsername           = "username"
	PostPropUserID             = "userId"
	PostPropAddedUsername      = "addedUsername"
	PostPropAddedUserID        = "addedUserId"
	PostPropRemovedUsername    = "removedUsername"
	PostPropOldDisplayName     = "old_displayname"
	PostPropNewDisplayName     = "new_displayname"
	PostPropNewHeader          = "new_header"
	PostPropNewPurpose         = "new_purpose"
	PostPropFromCommand        = "from_command"
	PostPropCommandTriggerName = "trigger"
)

// Post is a message in a channel. Ephemeral posts share the shape but are
// never persisted.
type Post struct {
	ID        string            `json:"id"`
	ChannelID string            `json:"channel_id"`
	UserID    string            `json:"user_id"`
	RootID    string            `json:"root_id,omitempty"`
	Message   string            `json:"message"`
	Type      string            `json:"type"`
	Props     map[string]string `json:"props,omitempty"`
	CreateAt  int64             `json:"create_at"`
}

// IsSystemMessage reports whether the post was generated by the server.
func (p *Post) IsSystemMessage() bool {
	return len(p.Type) > len("system_") && p.Type[:len("system_")] == "system_"
}

// IsEphemeral reports whether the post is only visible to a single user.
func (p *Post) IsEphemeral() bool {
	return p.Type == PostTypeEphemeral
}

// PostRequest is the body of a create-post call.
type PostRequest struct {
	ChannelID string `json:"channel_id"`
	RootID    string `json:"root_id"`
	Message   string `json:"message"`
}

// RenderedPost is a post prepared for a specific viewer.
type RenderedPost struct {
	Post
	Username    string `json:"username"`
	Text        string `json:"text"`
	CurrentUser bool   `json:"current_user"`
}

// Audit is a persisted record of a consumed domain event.
type Audit struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Payload   string `json:"payload"`
	CreateAt  int64  `json:"create_at"`
}
