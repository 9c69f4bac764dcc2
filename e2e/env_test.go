package e2e

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/handlers"
	"github.com/parley-chat/parley-services/api/services"
	"github.com/parley-chat/parley-services/db"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/appconfig"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/commands"
	"github.com/parley-chat/parley-services/web"
	"github.com/stretchr/testify/require"
)

// Environment variables that point the suite at a running instance instead
// of an in-process server.
const (
	urlEnv           = "PARLEY_E2E_URL"
	adminUsernameEnv = "PARLEY_E2E_ADMIN_USERNAME"
	adminPasswordEnv = "PARLEY_E2E_ADMIN_PASSWORD"
)

const channelHandleURL = "https://about.mattermost.com/default-channel-handle-documentation"

// startServer serves the API and the web UI of a fresh in-memory instance.
func startServer(t *testing.T) string {
	cfg := appconfig.Default()
	signer, err := authn.NewSigner("e2e-signing-key", cfg.Auth.TokenTTL)
	require.NoError(t, err)
	a, err := app.New(cfg, db.NewMemoryDB(), signer, nil)
	require.NoError(t, err)

	executor := commands.NewExecutor(a, commands.DefaultRegistry(), nil)
	r := mux.NewRouter()
	handlers.RegisterRoutes(r, &services.Service{Config: cfg, App: a, Commands: executor})
	ui, err := web.New(a, executor)
	require.NoError(t, err)
	ui.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

// adminClient returns a client signed in as a system admin. On a fresh
// instance the first account created is the admin.
func adminClient(ctx context.Context, t *testing.T) (*Client, string) {
	baseURL := os.Getenv(urlEnv)
	username, password := os.Getenv(adminUsernameEnv), os.Getenv(adminPasswordEnv)
	if baseURL == "" {
		baseURL = startServer(t)
		username, password = "sysadmin", DefaultPassword
	}

	c := NewClient(baseURL)
	if os.Getenv(urlEnv) == "" {
		_, err := c.CreateNamedUser(ctx, username)
		require.NoError(t, err)
	}
	admin, err := c.Login(ctx, username, password)
	require.NoError(t, err)
	require.True(t, admin.IsSystemAdmin())
	return c, baseURL
}
