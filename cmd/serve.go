package cmd

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/api/handlers"
	"github.com/parley-chat/parley-services/api/services"
	docs "github.com/parley-chat/parley-services/docs"
	awsclient "github.com/parley-chat/parley-services/internal/aws"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/commands"
	"github.com/parley-chat/parley-services/internal/email"
	"github.com/parley-chat/parley-services/internal/ephemeral"
	"github.com/parley-chat/parley-services/internal/events"
	"github.com/parley-chat/parley-services/internal/metrics"
	"github.com/parley-chat/parley-services/internal/ratelimit"
	"github.com/parley-chat/parley-services/web"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Parley Services API
// @version v1
// @description Users, teams, channels, posts and slash commands of the Parley chat server.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for the API and the web UI",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Load the config, open the store and set up logging
		commonSetUp()
		defer store.Close()

		a := newApp(ctx)

		// Initialize event publisher
		if appCfg.Pulsar.URL != "" {
			publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize event publisher")
			}
			defer publisher.Close()
			a.Events = publisher
		}

		limiter := ratelimit.Limiter(ratelimit.NewMemoryLimiter(appCfg.Commands.RateLimit.Window, appCfg.Commands.RateLimit.Max))
		if appCfg.Redis.URL != "" {
			rdb := newRedisClient(appCfg.Redis.URL)
			defer rdb.Close()

			a.Ephemeral = ephemeral.NewRedisStore(rdb, appCfg.Commands.EphemeralTTL)
			limiter = ratelimit.NewFallback(
				ratelimit.NewRedisLimiter(rdb, appCfg.Commands.RateLimit.Window, appCfg.Commands.RateLimit.Max, "parley:ratelimit:"),
				limiter,
			)
		}

		if appCfg.Email.Enabled {
			clients, err := awsclient.Load(ctx, appCfg.AWS)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize SES client")
			}
			a.Mailer = &email.SESSender{Client: clients.SES(), From: appCfg.Email.From}
		}

		executor := commands.NewExecutor(a, commands.DefaultRegistry(), limiter)
		r, err := newRouter(a, executor)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build routes")
		}

		addr := appCfg.Host
		if host != "" {
			addr = fmt.Sprintf("%s:%d", host, port)
		}
		log.Info().Msgf("Server started at %s", addr)

		if err := http.ListenAndServe(addr, r); err != nil {
			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "", "host to run the server on (overrides the config)")
	serveCmd.Flags().IntVar(&port, "port", 8065, "port to run the server on")
}

// newRouter mounts the API, the web UI and the operational endpoints.
func newRouter(a *app.App, executor *commands.Executor) (*mux.Router, error) {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		services.WriteResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	handlers.RegisterRoutes(r, &services.Service{Config: appCfg, App: a, Commands: executor})

	docs.SwaggerInfo.Host = appCfg.Host
	docs.SwaggerInfo.BasePath = appCfg.BasePath
	r.PathPrefix(appCfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(appCfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	ui, err := web.New(a, executor)
	if err != nil {
		return nil, err
	}
	ui.Register(r)
	return r, nil
}

func newRedisClient(url string) redis.UniversalClient {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid redis URL")
	}
	return redis.NewClient(opts)
}
