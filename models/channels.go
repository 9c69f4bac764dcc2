package models

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

const (
	ChannelOpen    = "O"
	ChannelPrivate = "P"
	ChannelDirect  = "D"
	ChannelGroup   = "G"

	ChannelGroupMinUsers = 3
	ChannelGroupMaxUsers = 8

	ChannelDisplayNameMaxRunes = 64

	MarkUnreadAll     = "all"
	MarkUnreadMention = "mention"
)

// Channel is a conversation: public, private, direct or group.
type Channel struct {
	ID            string `json:"id"`
	TeamID        string `json:"team_id"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Header        string `json:"header"`
	Purpose       string `json:"purpose"`
	CreatorID     string `json:"creator_id"`
	TotalMsgCount int64  `json:"total_msg_count"`
	LastPostAt    int64  `json:"last_post_at"`
	CreateAt      int64  `json:"create_at"`
}

// IsDirectOrGroup reports whether the channel is a DM or GM.
func (c *Channel) IsDirectOrGroup() bool {
	return c.Type == ChannelDirect || c.Type == ChannelGroup
}

// IsDefault reports whether the channel is the team's default channel.
func (c *Channel) IsDefault() bool {
	return c.Name == DefaultChannelName
}

// ChannelMember links a user to a channel and tracks what they have read.
type ChannelMember struct {
	ChannelID    string            `json:"channel_id"`
	UserID       string            `json:"user_id"`
	Roles        string            `json:"roles"`
	MsgCount     int64             `json:"msg_count"`
	MentionCount int64             `json:"mention_count"`
	LastViewedAt int64             `json:"last_viewed_at"`
	NotifyProps  map[string]string `json:"notify_props"`
}

// IsMuted reports whether the member muted the channel.
func (m *ChannelMember) IsMuted() bool {
	return m.NotifyProps["mark_unread"] == MarkUnreadMention
}

// DefaultNotifyProps returns the notify props of a fresh membership.
func DefaultNotifyProps() map[string]string {
	return map[string]string{"mark_unread": MarkUnreadAll}
}

// ChannelRequest is the body of a create-channel call.
type ChannelRequest struct {
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Header      string `json:"header"`
	Purpose     string `json:"purpose"`
}

// DirectChannelName returns the handle of the DM between two users.
func DirectChannelName(userID, otherUserID string) string {
	if userID > otherUserID {
		return otherUserID + "__" + userID
	}
	return userID + "__" + otherUserID
}

// GroupChannelName returns the handle of the GM for a set of users.
func GroupChannelName(userIDs []string) string {
	ids := make([]string, len(userIDs))
	copy(ids, userIDs)
	sort.Strings(ids)

	sum := sha1.Sum([]byte(strings.Join(ids, ",")))
	return hex.EncodeToString(sum[:])
}
