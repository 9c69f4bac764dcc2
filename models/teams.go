package models

const (
	TeamOpen   = "O"
	TeamInvite = "I"

	DefaultChannelName  = "town-square"
	OffTopicChannelName = "off-topic"
)

// Team is a container for channels and users.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	CreateAt    int64  `json:"create_at"`
}

// TeamMember links a user to a team.
type TeamMember struct {
	TeamID   string `json:"team_id"`
	UserID   string `json:"user_id"`
	Roles    string `json:"roles"`
	DeleteAt int64  `json:"delete_at"`
}
