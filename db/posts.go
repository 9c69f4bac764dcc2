package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/parley-chat/parley-services/models"
)

const postColumns = `id, channel_id, user_id, root_id, message, type, props, create_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	var props []byte
	if err := row.Scan(&p.ID, &p.ChannelID, &p.UserID, &p.RootID, &p.Message, &p.Type, &props, &p.CreateAt); err != nil {
		return nil, err
	}
	if len(props) > 0 {
		if err := json.Unmarshal(props, &p.Props); err != nil {
			return nil, fmt.Errorf("error decoding post props: %w", err)
		}
	}
	return &p, nil
}

// CreatePost inserts a post and bumps the channel's message counters in one transaction.
func (c *ChatDB) CreatePost(ctx context.Context, post *models.Post) error {
	props, err := json.Marshal(post.Props)
	if err != nil {
		return fmt.Errorf("error encoding post props: %w", err)
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO posts (`+postColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			post.ID, post.ChannelID, post.UserID, post.RootID, post.Message, post.Type,
			string(props), post.CreateAt); err != nil {
			return translate(err, "error inserting post")
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE channels SET total_msg_count = total_msg_count + 1,
				last_post_at = GREATEST(last_post_at, $2)
			WHERE id = $1`, post.ChannelID, post.CreateAt); err != nil {
			return translate(err, "error updating channel counters")
		}
		return nil
	})
}

// GetPost retrieves a post by id.
func (c *ChatDB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(c.DB.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "error retrieving post")
	}
	return p, nil
}

// GetPostsForChannel returns the most recent posts of a channel, oldest first.
func (c *ChatDB) GetPostsForChannel(ctx context.Context, channelID string, limit int) ([]*models.Post, error) {
	return c.queryPosts(ctx, `
		SELECT `+postColumns+` FROM (
			SELECT `+postColumns+` FROM posts WHERE channel_id = $1
			ORDER BY create_at DESC, id DESC LIMIT $2
		) recent ORDER BY create_at ASC, id ASC`, channelID, limit)
}

// GetPostThread returns a root post followed by its replies.
func (c *ChatDB) GetPostThread(ctx context.Context, rootID string) ([]*models.Post, error) {
	return c.queryPosts(ctx, `
		SELECT `+postColumns+` FROM posts WHERE id = $1 OR root_id = $1
		ORDER BY create_at ASC, id ASC`, rootID)
}

func (c *ChatDB) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "error retrieving posts")
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, translate(err, "error scanning post")
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// SaveAudit records a consumed event.
func (c *ChatDB) SaveAudit(ctx context.Context, audit *models.Audit) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO audits (id, event_type, channel_id, user_id, payload, create_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		audit.ID, audit.EventType, audit.ChannelID, audit.UserID, audit.Payload, audit.CreateAt)
	return translate(err, "error inserting audit")
}
