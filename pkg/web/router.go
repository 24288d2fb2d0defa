// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/tenant-admin/internal/authorization"
	"github.com/canonical/tenant-admin/internal/db"
	"github.com/canonical/tenant-admin/internal/directory"
	"github.com/canonical/tenant-admin/internal/functions"
	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/storage"
	"github.com/canonical/tenant-admin/internal/tracing"
	"github.com/canonical/tenant-admin/pkg/access"
	"github.com/canonical/tenant-admin/pkg/authentication"
	"github.com/canonical/tenant-admin/pkg/leads"
	"github.com/canonical/tenant-admin/pkg/metrics"
	"github.com/canonical/tenant-admin/pkg/status"
	"github.com/canonical/tenant-admin/pkg/tenant"
	"github.com/canonical/tenant-admin/pkg/webhooks"
)

// RouterConfig carries the wired dependencies for the HTTP surface. Auth is
// optional so local development can run without a token issuer; every other
// field is required.
type RouterConfig struct {
	Storage   storage.StorageInterface
	DBClient  db.DBClientInterface
	Authz     authorization.AuthorizerInterface
	Directory directory.ClientInterface

	// Invoker brokers POST /api/invite to a deployed function when it has
	// candidates; nil or empty runs the invitation workflow locally.
	Invoker functions.ClientInterface

	AuthMiddleware *authentication.Middleware

	InvitationLifetime string
	AllowedOrigins     []string
}

func NewRouter(
	c *RouterConfig,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(c.AllowedOrigins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)

	webhookService := webhooks.NewService(c.Storage, c.Authz, tracer, monitor, logger)
	webhooks.NewAPI(webhookService, logger).RegisterEndpoints(router)

	apiRouter := chi.NewMux()
	if c.AuthMiddleware != nil {
		apiRouter.Use(c.AuthMiddleware.Authenticate())
	}
	apiRouter.Use(db.TransactionMiddleware(c.DBClient, logger))

	accessService := access.NewService(c.Storage, tracer, monitor, logger)
	access.NewAPI(accessService, tracer, monitor, logger).RegisterEndpoints(apiRouter)

	tenantService := tenant.NewService(c.Storage, c.Authz, c.Directory, c.InvitationLifetime, tracer, monitor, logger)
	tenant.NewAPI(tenantService, c.Invoker, tracer, monitor, logger).RegisterEndpoints(apiRouter)

	leadsService := leads.NewService(c.Storage, tracer, monitor, logger)
	leads.NewAPI(leadsService, tracer, monitor, logger).RegisterEndpoints(apiRouter)

	router.Mount("/", apiRouter)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
