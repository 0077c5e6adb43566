package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/oaiiae/huma-graphql-example/cli/api"
	"github.com/oaiiae/huma-graphql-example/cli/logger"
	"github.com/oaiiae/huma-graphql-example/datastores"
)

const title = "Contacts and doohickeys"

// Set at build time with -ldflags "-X main.version=...".
var (
	version  = "dev"
	revision = "unknown"
	created  = "unknown"
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	logger.Options
	api.ServerOptions
	api.RouterOptions
	api.StoreOptions
	datastores.MongoOptions
}

func main() {
	var cliOptions *Options
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		cliOptions = options

		var (
			mu      sync.Mutex
			srv     *http.Server
			release func(context.Context) error
			stopLog *slog.Logger
		)
		hooks.OnStart(func() {
			logger := logger.New(&options.Options)
			contacts, err := api.NewContacts(&options.StoreOptions, logger)
			if err != nil {
				logger.Error("failed to load contacts", "err", err)
				os.Exit(1)
			}

			connectCtx, cancel := context.WithTimeout(context.Background(), max(options.MongoTimeout, time.Second))
			doohickeys, releaseStore := api.NewDoohickeys(connectCtx, &options.MongoOptions, logger)
			cancel()

			handler, _ := api.NewRouter(&options.RouterOptions, title, version, revision, created,
				contacts, doohickeys, logger)
			server := api.NewServer(&options.ServerOptions, handler, logger)
			mu.Lock()
			srv, release, stopLog = server, releaseStore, logger
			mu.Unlock()

			logger.Info("server running", "addr", server.Addr)
			err = server.ListenAndServe()
			if err != http.ErrServerClosed {
				logger.Error("failed to listen and serve", "err", err)
			} else {
				logger.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			mu.Lock()
			defer mu.Unlock()
			if srv == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				stopLog.Warn("could not shutdown the server", "err", err)
			}
			if err := release(ctx); err != nil {
				stopLog.Warn("could not release the doohickeys store", "err", err)
			}
		})
	})

	cli.Root().Use = "contacts-graphql"
	cli.Root().Version = version
	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := api.OpenAPI(&cliOptions.RouterOptions, title, version)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	})
	cli.Run()
}
