package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/parley-chat/parley-services/models"
)

const channelColumns = `id, team_id, type, name, display_name, header, purpose, creator_id, total_msg_count, last_post_at, create_at`

func scanChannel(row rowScanner) (*models.Channel, error) {
	var ch models.Channel
	err := row.Scan(&ch.ID, &ch.TeamID, &ch.Type, &ch.Name, &ch.DisplayName, &ch.Header,
		&ch.Purpose, &ch.CreatorID, &ch.TotalMsgCount, &ch.LastPostAt, &ch.CreateAt)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// CreateChannel inserts a new channel.
func (c *ChatDB) CreateChannel(ctx context.Context, channel *models.Channel) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO channels (`+channelColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		channel.ID, channel.TeamID, channel.Type, channel.Name, channel.DisplayName, channel.Header,
		channel.Purpose, channel.CreatorID, channel.TotalMsgCount, channel.LastPostAt, channel.CreateAt)
	return translate(err, "error inserting channel")
}

// GetChannel retrieves a channel by id.
func (c *ChatDB) GetChannel(ctx context.Context, id string) (*models.Channel, error) {
	ch, err := scanChannel(c.DB.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "error retrieving channel")
	}
	return ch, nil
}

// GetChannelByName retrieves a channel by handle. DMs and GMs have an empty team id.
func (c *ChatDB) GetChannelByName(ctx context.Context, teamID, name string) (*models.Channel, error) {
	ch, err := scanChannel(c.DB.QueryRowContext(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE team_id = $1 AND name = $2`, teamID, name))
	if err != nil {
		return nil, translate(err, "error retrieving channel")
	}
	return ch, nil
}

// UpdateChannel writes the mutable fields of a channel.
func (c *ChatDB) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	return c.updateOne(ctx, "error updating channel", `
		UPDATE channels SET display_name = $2, header = $3, purpose = $4
		WHERE id = $1`,
		channel.ID, channel.DisplayName, channel.Header, channel.Purpose)
}

// GetChannelsForUser lists the team's channels plus the DMs and GMs the user belongs to.
func (c *ChatDB) GetChannelsForUser(ctx context.Context, teamID, userID string) ([]*models.Channel, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT c.id, c.team_id, c.type, c.name, c.display_name, c.header, c.purpose,
			c.creator_id, c.total_msg_count, c.last_post_at, c.create_at
		FROM channels c
		INNER JOIN channel_members cm ON cm.channel_id = c.id
		WHERE cm.user_id = $2 AND (c.team_id = $1 OR c.team_id = '')
		ORDER BY c.display_name`, teamID, userID)
	if err != nil {
		return nil, translate(err, "error retrieving channels")
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, translate(err, "error scanning channel")
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// SaveChannelMember inserts a channel membership.
func (c *ChatDB) SaveChannelMember(ctx context.Context, member *models.ChannelMember) error {
	props, err := json.Marshal(member.NotifyProps)
	if err != nil {
		return fmt.Errorf("error encoding notify props: %w", err)
	}
	_, err = c.DB.ExecContext(ctx, `
		INSERT INTO channel_members (channel_id, user_id, roles, msg_count, mention_count, last_viewed_at, notify_props)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		member.ChannelID, member.UserID, member.Roles, member.MsgCount, member.MentionCount,
		member.LastViewedAt, string(props))
	return translate(err, "error inserting channel member")
}

// UpdateChannelMember writes a membership's counters and notify props.
func (c *ChatDB) UpdateChannelMember(ctx context.Context, member *models.ChannelMember) error {
	props, err := json.Marshal(member.NotifyProps)
	if err != nil {
		return fmt.Errorf("error encoding notify props: %w", err)
	}
	return c.updateOne(ctx, "error updating channel member", `
		UPDATE channel_members
		SET roles = $3, msg_count = $4, mention_count = $5, last_viewed_at = $6, notify_props = $7
		WHERE channel_id = $1 AND user_id = $2`,
		member.ChannelID, member.UserID, member.Roles, member.MsgCount, member.MentionCount,
		member.LastViewedAt, string(props))
}

func scanChannelMember(row rowScanner) (*models.ChannelMember, error) {
	var m models.ChannelMember
	var props []byte
	if err := row.Scan(&m.ChannelID, &m.UserID, &m.Roles, &m.MsgCount, &m.MentionCount,
		&m.LastViewedAt, &props); err != nil {
		return nil, err
	}
	m.NotifyProps = models.DefaultNotifyProps()
	if len(props) > 0 {
		if err := json.Unmarshal(props, &m.NotifyProps); err != nil {
			return nil, fmt.Errorf("error decoding notify props: %w", err)
		}
	}
	return &m, nil
}

// GetChannelMember retrieves a single channel membership.
func (c *ChatDB) GetChannelMember(ctx context.Context, channelID, userID string) (*models.ChannelMember, error) {
	m, err := scanChannelMember(c.DB.QueryRowContext(ctx, `
		SELECT channel_id, user_id, roles, msg_count, mention_count, last_viewed_at, notify_props
		FROM channel_members WHERE channel_id = $1 AND user_id = $2`, channelID, userID))
	if err != nil {
		return nil, translate(err, "error retrieving channel member")
	}
	return m, nil
}

// GetChannelMembers lists every membership of a channel.
func (c *ChatDB) GetChannelMembers(ctx context.Context, channelID string) ([]*models.ChannelMember, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT channel_id, user_id, roles, msg_count, mention_count, last_viewed_at, notify_props
		FROM channel_members WHERE channel_id = $1`, channelID)
	if err != nil {
		return nil, translate(err, "error retrieving channel members")
	}
	defer rows.Close()

	var members []*models.ChannelMember
	for rows.Next() {
		m, err := scanChannelMember(rows)
		if err != nil {
			return nil, translate(err, "error scanning channel member")
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// RemoveChannelMember deletes a channel membership.
func (c *ChatDB) RemoveChannelMember(ctx context.Context, channelID, userID string) error {
	return c.updateOne(ctx, "error removing channel member",
		`DELETE FROM channel_members WHERE channel_id = $1 AND user_id = $2`, channelID, userID)
}

// IncrementMentionCount bumps the mention counter of the given members.
func (c *ChatDB) IncrementMentionCount(ctx context.Context, channelID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.DB.ExecContext(ctx, `
		UPDATE channel_members SET mention_count = mention_count + 1
		WHERE channel_id = $1 AND user_id = ANY($2)`, channelID, pq.Array(userIDs))
	return translate(err, "error incrementing mention count")
}

// ViewChannel marks every message in the channel as read by the user.
func (c *ChatDB) ViewChannel(ctx context.Context, channelID, userID string, at int64) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		var total int64
		if err := tx.QueryRowContext(ctx, `SELECT total_msg_count FROM channels WHERE id = $1`, channelID).
			Scan(&total); err != nil {
			return translate(err, "error retrieving channel")
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE channel_members SET msg_count = $3, mention_count = 0, last_viewed_at = $4
			WHERE channel_id = $1 AND user_id = $2`, channelID, userID, total, at)
		if err != nil {
			return translate(err, "error viewing channel")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return translate(sql.ErrNoRows, "error viewing channel")
		}
		return nil
	})
}
