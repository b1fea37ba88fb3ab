// Command rpckit-demo serves a small notes API over rpckit.
//
//	go run ./cmd/rpckit-demo
//	curl 'localhost:8080/rpc/notes.list?input={"limit":2}'
//	curl -XPOST -H 'Authorization: Bearer ann' localhost:8080/rpc/notes.create -d '{"title":"hi","body":"first"}'
//	curl localhost:8080/ssr/notes
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rpckit/bootstrap"
	"github.com/kbukum/rpckit/config"
	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/router"
	"github.com/kbukum/rpckit/server"
	"github.com/kbukum/rpckit/ssg"
)

const serviceName = "rpckit-demo"

// demoConfig extends the service config with demo settings.
type demoConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Notes                notesConfig `yaml:"notes" mapstructure:"notes"`
}

type notesConfig struct {
	PageSize  int           `yaml:"page_size" mapstructure:"page_size"`
	StaleTime time.Duration `yaml:"stale_time" mapstructure:"stale_time"`
}

func (c *demoConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Notes.PageSize == 0 {
		c.Notes.PageSize = 20
	}
	if c.Notes.StaleTime == 0 {
		c.Notes.StaleTime = 5 * time.Second
	}
}

func main() {
	var cfg demoConfig
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvPrefix("RPCKIT")); err != nil {
		logger.GetGlobalLogger().Fatal("Failed to load config", map[string]interface{}{logger.FieldError: err.Error()})
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		logger.GetGlobalLogger().Fatal("Failed to create application", map[string]interface{}{logger.FieldError: err.Error()})
	}

	store := newNoteStore()
	appRouter := newRouter(store, cfg.Notes.PageSize)
	bootstrap.Mount(app, appRouter, sessionFromRequest)
	app.Server.Engine().GET("/ssr/notes", ssrNotes(appRouter, cfg.Notes.StaleTime, app.Logger))

	if err := app.Run(context.Background()); err != nil {
		app.Logger.Error("Application stopped with error", map[string]interface{}{logger.FieldError: err.Error()})
		os.Exit(1)
	}
}

// sessionFromRequest reads a bearer token as the user name.
func sessionFromRequest(c *gin.Context) (session, error) {
	token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return session{User: strings.TrimSpace(token)}, nil
}

// ssrNotes prefetches the first page of notes on the server and returns the
// dehydrated query cache a client can hydrate from.
func ssrNotes(r *router.Router[session], staleTime time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		helpers, err := ssg.New(ssg.Options[session]{
			Router:      r,
			Context:     session{},
			Transformer: ssg.JSONTransformer{},
			StaleTime:   staleTime,
			Logger:      log,
		})
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		helpers.PrefetchQueries(c.Request.Context(),
			ssg.Request{Path: "notes.list", Input: map[string]any{"limit": 10}, Infinite: true},
			ssg.Request{Path: "notes.count"},
		)
		state, err := helpers.Dehydrate()
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondData(c, state)
	}
}
