package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/parley-chat/parley-services/models"
)

// DefaultPassword is the password of every user the client creates.
const DefaultPassword = "passwd-123"

const apiBase = "/api/v4"

// APIError is a non-2xx answer of the JSON API.
type APIError struct {
	Status  int
	Code    string
	Details string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Details)
}

// Client seeds fixtures through the JSON API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTP: http.DefaultClient}
}

// RandomSuffix returns a short lowercase hex string for unique fixture names.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+apiBase+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var failure models.Response
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return resp, &APIError{Status: resp.StatusCode, Code: failure.ErrorCode, Details: failure.ErrorDetails}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("error decoding %s %s: %w", method, path, err)
		}
	}
	return resp, nil
}

// Login signs the client in; later calls carry the session token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	resp, err := c.do(ctx, http.MethodPost, "/users/login", models.LoginRequest{LoginID: username, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	c.Token = resp.Header.Get("Token")
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/users/logout", nil, nil)
	c.Token = ""
	return err
}

// CreateUser signs up a user named prefix-<random>.
func (c *Client) CreateUser(ctx context.Context, prefix string) (*models.User, error) {
	return c.CreateNamedUser(ctx, prefix+"-"+RandomSuffix())
}

func (c *Client) CreateNamedUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	_, err := c.do(ctx, http.MethodPost, "/users", models.User{
		Username: username,
		Email:    username + "@sample.parley.test",
		Password: DefaultPassword,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeactivateUser(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodPut, "/users/"+userID+"/active", models.ActiveRequest{Active: false}, nil)
	return err
}

// CreateTeam creates a team named prefix-<random>.
func (c *Client) CreateTeam(ctx context.Context, prefix, displayName string) (*models.Team, error) {
	suffix := RandomSuffix()
	var team models.Team
	_, err := c.do(ctx, http.MethodPost, "/teams", models.Team{
		Name:        prefix + "-" + suffix,
		DisplayName: displayName + " " + suffix,
		Type:        models.TeamOpen,
	}, &team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) AddUserToTeam(ctx context.Context, teamID, userID string) error {
	_, err := c.do(ctx, http.MethodPost, "/teams/"+teamID+"/members", models.MemberRequest{UserID: userID}, nil)
	return err
}

// CreateChannel creates a public channel named name-<random> and displayed
// as "displayName <random>".
func (c *Client) CreateChannel(ctx context.Context, teamID, name, displayName string) (*models.Channel, error) {
	suffix := RandomSuffix()
	var channel models.Channel
	_, err := c.do(ctx, http.MethodPost, "/channels", models.ChannelRequest{
		TeamID:      teamID,
		Name:        name + "-" + suffix,
		DisplayName: displayName + " " + suffix,
		Type:        models.ChannelOpen,
	}, &channel)
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// AddUserToChannel adds a user to a channel; adding a member again succeeds.
func (c *Client) AddUserToChannel(ctx context.Context, channelID, userID string) error {
	_, err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/members", models.MemberRequest{UserID: userID}, nil)
	return err
}

func (c *Client) GetChannelByName(ctx context.Context, teamID, name string) (*models.Channel, error) {
	var channel models.Channel
	if _, err := c.do(ctx, http.MethodGet, "/teams/"+teamID+"/channels/name/"+name, nil, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (c *Client) GetChannelPosts(ctx context.Context, channelID string) ([]*models.RenderedPost, error) {
	var posts []*models.RenderedPost
	if _, err := c.do(ctx, http.MethodGet, "/channels/"+channelID+"/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
