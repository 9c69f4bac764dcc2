package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/parley-chat/parley-services/models"
)

// MemoryDB is an in-process Store used by tests and single-node development
// servers. Every read returns a copy.
type MemoryDB struct {
	mu sync.RWMutex

	users          map[string]*models.User
	teams          map[string]*models.Team
	teamMembers    map[string]*models.TeamMember
	channels       map[string]*models.Channel
	channelMembers map[string]*models.ChannelMember
	posts          map[string]*models.Post
	postOrder      []string
	audits         []*models.Audit
}

// NewMemoryDB returns an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:          map[string]*models.User{},
		teams:          map[string]*models.Team{},
		teamMembers:    map[string]*models.TeamMember{},
		channels:       map[string]*models.Channel{},
		channelMembers: map[string]*models.ChannelMember{},
		posts:          map[string]*models.Post{},
	}
}

func memberKey(a, b string) string {
	return a + "/" + b
}

func copyProps(props map[string]string) map[string]string {
	if props == nil {
		return nil
	}
	cp := make(map[string]string, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return cp
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func copyChannel(ch *models.Channel) *models.Channel {
	cp := *ch
	return &cp
}

func copyChannelMember(m *models.ChannelMember) *models.ChannelMember {
	cp := *m
	cp.NotifyProps = copyProps(m.NotifyProps)
	return &cp
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Props = copyProps(p.Props)
	return &cp
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func conflict(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}

func (m *MemoryDB) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; ok {
		return conflict("error inserting user")
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return conflict("error inserting user")
		}
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *MemoryDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, notFound("error retrieving user")
	}
	return copyUser(u), nil
}

func (m *MemoryDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, notFound("error retrieving user")
}

func (m *MemoryDB) GetUsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	var users []*models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok && !seen[id] {
			seen[id] = true
			users = append(users, copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *MemoryDB) UpdateUserDeleteAt(ctx context.Context, id string, deleteAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return notFound("error updating user")
	}
	u.DeleteAt = deleteAt
	return nil
}

func (m *MemoryDB) UpdateUserStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return notFound("error updating user status")
	}
	u.Status = status
	return nil
}

func (m *MemoryDB) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryDB) CreateTeam(ctx context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.teams {
		if t.ID == team.ID || t.Name == team.Name {
			return conflict("error inserting team")
		}
	}
	cp := *team
	m.teams[team.ID] = &cp
	return nil
}

func (m *MemoryDB) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[id]
	if !ok {
		return nil, notFound("error retrieving team")
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryDB) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.teams {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, notFound("error retrieving team")
}

func (m *MemoryDB) SaveTeamMember(ctx context.Context, member *models.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *member
	m.teamMembers[memberKey(member.TeamID, member.UserID)] = &cp
	return nil
}

func (m *MemoryDB) GetTeamMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tm, ok := m.teamMembers[memberKey(teamID, userID)]
	if !ok {
		return nil, notFound("error retrieving team member")
	}
	cp := *tm
	return &cp, nil
}

func (m *MemoryDB) GetTeamsForUser(ctx context.Context, userID string) ([]*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var teams []*models.Team
	for _, tm := range m.teamMembers {
		if tm.UserID != userID || tm.DeleteAt != 0 {
			continue
		}
		if t, ok := m.teams[tm.TeamID]; ok {
			cp := *t
			teams = append(teams, &cp)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].DisplayName < teams[j].DisplayName })
	return teams, nil
}

func (m *MemoryDB) CreateChannel(ctx context.Context, channel *models.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range m.channels {
		if ch.ID == channel.ID || (ch.TeamID == channel.TeamID && ch.Name == channel.Name) {
			return conflict("error inserting channel")
		}
	}
	m.channels[channel.ID] = copyChannel(channel)
	return nil
}

func (m *MemoryDB) GetChannel(ctx context.Context, id string) (*models.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ch, ok := m.channels[id]
	if !ok {
		return nil, notFound("error retrieving channel")
	}
	return copyChannel(ch), nil
}

func (m *MemoryDB) GetChannelByName(ctx context.Context, teamID, name string) (*models.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ch := range m.channels {
		if ch.TeamID == teamID && ch.Name == name {
			return copyChannel(ch), nil
		}
	}
	return nil, notFound("error retrieving channel")
}

func (m *MemoryDB) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[channel.ID]
	if !ok {
		return notFound("error updating channel")
	}
	ch.DisplayName = channel.DisplayName
	ch.Header = channel.Header
	ch.Purpose = channel.Purpose
	return nil
}

func (m *MemoryDB) GetChannelsForUser(ctx context.Context, teamID, userID string) ([]*models.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var channels []*models.Channel
	for _, cm := range m.channelMembers {
		if cm.UserID != userID {
			continue
		}
		ch, ok := m.channels[cm.ChannelID]
		if !ok || (ch.TeamID != teamID && ch.TeamID != "") {
			continue
		}
		channels = append(channels, copyChannel(ch))
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].DisplayName < channels[j].DisplayName })
	return channels, nil
}

func (m *MemoryDB) SaveChannelMember(ctx context.Context, member *models.ChannelMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memberKey(member.ChannelID, member.UserID)
	if _, ok := m.channelMembers[key]; ok {
		return conflict("error inserting channel member")
	}
	if _, ok := m.channels[member.ChannelID]; !ok {
		return notFound("error inserting channel member")
	}
	m.channelMembers[key] = copyChannelMember(member)
	return nil
}

func (m *MemoryDB) UpdateChannelMember(ctx context.Context, member *models.ChannelMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memberKey(member.ChannelID, member.UserID)
	if _, ok := m.channelMembers[key]; !ok {
		return notFound("error updating channel member")
	}
	m.channelMembers[key] = copyChannelMember(member)
	return nil
}

func (m *MemoryDB) GetChannelMember(ctx context.Context, channelID, userID string) (*models.ChannelMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.channelMembers[memberKey(channelID, userID)]
	if !ok {
		return nil, notFound("error retrieving channel member")
	}
	return copyChannelMember(cm), nil
}

func (m *MemoryDB) GetChannelMembers(ctx context.Context, channelID string) ([]*models.ChannelMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var members []*models.ChannelMember
	for _, cm := range m.channelMembers {
		if cm.ChannelID == channelID {
			members = append(members, copyChannelMember(cm))
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

func (m *MemoryDB) RemoveChannelMember(ctx context.Context, channelID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memberKey(channelID, userID)
	if _, ok := m.channelMembers[key]; !ok {
		return notFound("error removing channel member")
	}
	delete(m.channelMembers, key)
	return nil
}

func (m *MemoryDB) IncrementMentionCount(ctx context.Context, channelID string, userIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range userIDs {
		if cm, ok := m.channelMembers[memberKey(channelID, id)]; ok {
			cm.MentionCount++
		}
	}
	return nil
}

func (m *MemoryDB) ViewChannel(ctx context.Context, channelID, userID string, at int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[channelID]
	if !ok {
		return notFound("error retrieving channel")
	}
	cm, ok := m.channelMembers[memberKey(channelID, userID)]
	if !ok {
		return notFound("error viewing channel")
	}
	cm.MsgCount = ch.TotalMsgCount
	cm.MentionCount = 0
	cm.LastViewedAt = at
	return nil
}

func (m *MemoryDB) CreatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[post.ID]; ok {
		return conflict("error inserting post")
	}
	ch, ok := m.channels[post.ChannelID]
	if !ok {
		return notFound("error inserting post")
	}
	m.posts[post.ID] = copyPost(post)
	m.postOrder = append(m.postOrder, post.ID)
	ch.TotalMsgCount++
	if post.CreateAt > ch.LastPostAt {
		ch.LastPostAt = post.CreateAt
	}
	return nil
}

func (m *MemoryDB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, notFound("error retrieving post")
	}
	return copyPost(p), nil
}

// GetPostsForChannel keeps insertion order for posts created in the same millisecond.
func (m *MemoryDB) GetPostsForChannel(ctx context.Context, channelID string, limit int) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []*models.Post
	for _, id := range m.postOrder {
		if p := m.posts[id]; p.ChannelID == channelID {
			posts = append(posts, copyPost(p))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreateAt < posts[j].CreateAt })
	if limit > 0 && len(posts) > limit {
		posts = posts[len(posts)-limit:]
	}
	return posts, nil
}

func (m *MemoryDB) GetPostThread(ctx context.Context, rootID string) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []*models.Post
	for _, id := range m.postOrder {
		if p := m.posts[id]; p.ID == rootID || p.RootID == rootID {
			posts = append(posts, copyPost(p))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreateAt < posts[j].CreateAt })
	return posts, nil
}

func (m *MemoryDB) SaveAudit(ctx context.Context, audit *models.Audit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *audit
	m.audits = append(m.audits, &cp)
	return nil
}

// Audits returns the recorded audits in insertion order.
func (m *MemoryDB) Audits() []*models.Audit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Audit, len(m.audits))
	for i, a := range m.audits {
		cp := *a
		out[i] = &cp
	}
	return out
}

func (m *MemoryDB) Close() error {
	return nil
}

var (
	_ Store = (*MemoryDB)(nil)
	_ Store = (*ChatDB)(nil)
)
