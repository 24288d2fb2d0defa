// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/tenant-admin/internal/authorization"
	"github.com/canonical/tenant-admin/internal/config"
	"github.com/canonical/tenant-admin/internal/db"
	"github.com/canonical/tenant-admin/internal/directory"
	"github.com/canonical/tenant-admin/internal/functions"
	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring/prometheus"
	"github.com/canonical/tenant-admin/internal/openfga"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/pkg/authentication"
	"github.com/canonical/tenant-admin/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("tenant-admin", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()
	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	var authorizer *authorization.Authorizer
	if specs.AuthorizationEnabled {
		ofga := openfga.NewClient(
			openfga.NewConfig(
				specs.OpenfgaApiScheme,
				specs.OpenfgaApiHost,
				specs.OpenfgaStoreId,
				specs.OpenfgaApiToken,
				specs.OpenfgaModelId,
				specs.Debug,
				tracer,
				monitor,
				logger,
			),
		)
		authorizer = authorization.NewAuthorizer(ofga, tracer, monitor, logger)
		logger.Info("Authorization is enabled")
	} else {
		authorizer = authorization.NewAuthorizer(openfga.NewNoopClient(), tracer, monitor, logger)
		logger.Info("Using noop authorizer")
	}

	directoryClient := directory.NewClient(
		specs.BackendBaseURL,
		specs.ServiceAPIKey,
		tracer,
		monitor,
		logger,
	)

	var invoker functions.ClientInterface
	if len(specs.InviteFunctionHosts) > 0 {
		invoker = functions.NewClient(
			specs.InviteFunctionHosts,
			specs.InviteFunctionNames,
			specs.AnonAPIKey,
			tracer,
			monitor,
			logger,
		)
		logger.Infof("Invite calls are brokered to %d function candidates", len(invoker.Candidates()))
	}

	var authMiddleware *authentication.Middleware
	if specs.AuthIssuer != "" {
		verifier, err := authentication.NewJWTAuthenticator(
			context.Background(),
			specs.AuthIssuer,
			specs.AuthJWKSURL,
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to set up JWT authentication: %v", err)
		}
		authMiddleware = authentication.NewMiddleware(verifier, tracer, monitor, logger)
	} else {
		logger.Warn("AUTH_ISSUER is not set, requests are not authenticated")
	}

	router := web.NewRouter(
		&web.RouterConfig{
			Storage:            s,
			DBClient:           dbClient,
			Authz:              authorizer,
			Directory:          directoryClient,
			Invoker:            invoker,
			AuthMiddleware:     authMiddleware,
			InvitationLifetime: specs.InvitationLifetime,
			AllowedOrigins:     []string{"*"},
		},
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
