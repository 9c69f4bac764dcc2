package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/models"
)

const (
	defaultPostsLimit = 60
	systemUsername    = "system"
)

var mentionRegex = regexp.MustCompile(`@([a-z0-9][a-z0-9.\-_]*)`)

// CreatePost stores a message written by post.UserID. Only regular and /me
// posts can be created this way; system posts come from the domain itself.
func (a *App) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if strings.TrimSpace(post.Message) == "" {
		return nil, badRequest(ErrIDInvalidPost, "Message must not be empty.")
	}
	if utf8.RuneCountInString(post.Message) > models.PostMessageMaxRunes {
		return nil, badRequest(ErrIDInvalidPost, fmt.Sprintf("Message must be %d or fewer characters.", models.PostMessageMaxRunes))
	}
	if post.Type != models.PostTypeDefault && post.Type != models.PostTypeMe {
		return nil, badRequest(ErrIDInvalidPost, "Invalid post type.")
	}

	channel, err := a.GetChannel(ctx, post.ChannelID)
	if err != nil {
		return nil, err
	}
	if _, err := a.GetChannelMember(ctx, channel.ID, post.UserID); err != nil {
		return nil, err
	}

	if post.RootID != "" {
		root, err := a.Store.GetPost(ctx, post.RootID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, notFound(ErrIDPostNotFound, "Unable to find the thread.", err)
			}
			return nil, err
		}
		if root.ChannelID != channel.ID {
			return nil, badRequest(ErrIDInvalidPost, "The thread belongs to another channel.")
		}
		if root.RootID != "" {
			post.RootID = root.RootID
		}
	}

	return a.createPost(ctx, post)
}

// createPost persists post, updates mentions and marks the channel read for
// the author.
func (a *App) createPost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.ID = NewID()
	post.CreateAt = a.millis()
	if err := a.Store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to store post: %w", err)
	}

	if !post.IsSystemMessage() {
		mentioned, err := a.mentionedUserIDs(ctx, post)
		if err != nil {
			return nil, err
		}
		if len(mentioned) > 0 {
			if err := a.Store.IncrementMentionCount(ctx, post.ChannelID, mentioned); err != nil {
				return nil, err
			}
		}
	}
	if err := a.ViewChannel(ctx, post.UserID, post.ChannelID); err != nil {
		return nil, err
	}

	a.publish(ctx, events.Event{Type: events.PostCreated, ChannelID: post.ChannelID, UserID: post.UserID, PostID: post.ID})
	return post, nil
}

// mentionedUserIDs returns the members other than the author that post
// mentions. In DMs and GMs every other member is mentioned.
func (a *App) mentionedUserIDs(ctx context.Context, post *models.Post) ([]string, error) {
	channel, err := a.GetChannel(ctx, post.ChannelID)
	if err != nil {
		return nil, err
	}
	members, err := a.Store.GetChannelMembers(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	var ids []string
	if channel.IsDirectOrGroup() {
		for _, m := range members {
			if m.UserID != post.UserID {
				ids = append(ids, m.UserID)
			}
		}
		return ids, nil
	}

	names := map[string]bool{}
	everyone := false
	for _, match := range mentionRegex.FindAllStringSubmatch(strings.ToLower(post.Message), -1) {
		name := strings.TrimRight(match[1], ".-_")
		switch name {
		case "channel", "all", "here":
			everyone = true
		default:
			names[name] = true
		}
	}
	if !everyone && len(names) == 0 {
		return nil, nil
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		if m.UserID != post.UserID {
			memberIDs = append(memberIDs, m.UserID)
		}
	}
	if everyone {
		return memberIDs, nil
	}
	users, err := a.Store.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if names[u.Username] {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// SendEphemeral shows message to userID only, in channelID and optionally in
// the thread rootID.
func (a *App) SendEphemeral(ctx context.Context, userID, channelID, rootID, message string) (*models.Post, error) {
	post := &models.Post{
		ID:        NewID(),
		ChannelID: channelID,
		UserID:    userID,
		RootID:    rootID,
		Message:   message,
		Type:      models.PostTypeEphemeral,
		CreateAt:  a.millis(),
	}
	if err := a.Ephemeral.Add(ctx, userID, post); err != nil {
		return nil, fmt.Errorf("failed to store ephemeral post: %w", err)
	}
	return post, nil
}

// GetChannelView returns the latest posts of a channel as viewerID sees
// them: persisted posts plus the viewer's own ephemeral posts, oldest first.
func (a *App) GetChannelView(ctx context.Context, viewerID, channelID string, limit int) ([]*models.RenderedPost, error) {
	if limit <= 0 {
		limit = defaultPostsLimit
	}
	channel, err := a.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	ok, err := a.CanReadChannel(ctx, viewerID, channel)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden(ErrIDNotChannelMember, "You do not have permission to read this channel.")
	}

	posts, err := a.Store.GetPostsForChannel(ctx, channel.ID, limit)
	if err != nil {
		return nil, err
	}
	ephemeral, err := a.Ephemeral.List(ctx, viewerID, channel.ID)
	if err != nil {
		a.Log.Warn().Err(err).Str("channel_id", channel.ID).Msg("failed to list ephemeral posts")
		ephemeral = nil
	}

	all := append(posts, ephemeral...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreateAt < all[j].CreateAt })
	return a.render(ctx, viewerID, all)
}

// GetThread returns the root post and its replies as viewerID sees them.
func (a *App) GetThread(ctx context.Context, viewerID, postID string) ([]*models.RenderedPost, error) {
	post, err := a.Store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFound(ErrIDPostNotFound, "Unable to find the post.", err)
		}
		return nil, err
	}
	rootID := post.ID
	if post.RootID != "" {
		rootID = post.RootID
	}

	channel, err := a.GetChannel(ctx, post.ChannelID)
	if err != nil {
		return nil, err
	}
	ok, err := a.CanReadChannel(ctx, viewerID, channel)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden(ErrIDNotChannelMember, "You do not have permission to read this channel.")
	}

	thread, err := a.Store.GetPostThread(ctx, rootID)
	if err != nil {
		return nil, err
	}
	ephemeral, err := a.Ephemeral.List(ctx, viewerID, channel.ID)
	if err != nil {
		a.Log.Warn().Err(err).Str("channel_id", channel.ID).Msg("failed to list ephemeral posts")
	}
	for _, p := range ephemeral {
		if p.RootID == rootID {
			thread = append(thread, p)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool { return thread[i].CreateAt < thread[j].CreateAt })
	return a.render(ctx, viewerID, thread)
}

func (a *App) render(ctx context.Context, viewerID string, posts []*models.Post) ([]*models.RenderedPost, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	users, err := a.Store.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	rendered := make([]*models.RenderedPost, 0, len(posts))
	for _, p := range posts {
		rp := &models.RenderedPost{
			Post:        *p,
			Username:    usernames[p.UserID],
			Text:        SystemMessageFor(p, viewerID),
			CurrentUser: p.UserID == viewerID && !p.IsSystemMessage(),
		}
		if p.IsEphemeral() {
			rp.Username = systemUsername
		}
		rendered = append(rendered, rp)
	}
	return rendered, nil
}

// SystemMessageFor returns the text of post as viewerID should read it.
// Only add-to-channel posts differ between viewers.
func SystemMessageFor(post *models.Post, viewerID string) string {
	if post.Type != models.PostTypeAddToChannel {
		return post.Message
	}
	adder := post.Props[models.PostPropUsername]
	added := post.Props[models.PostPropAddedUsername]
	switch viewerID {
	case post.Props[models.PostPropAddedUserID]:
		return fmt.Sprintf("You were added to the channel by @%s.", adder)
	case post.Props[models.PostPropUserID]:
		return fmt.Sprintf("@%s added to the channel by you.", added)
	default:
		return post.Message
	}
}
