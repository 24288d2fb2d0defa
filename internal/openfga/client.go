// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"fmt"

	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/tracing"
)

type Tuple struct {
	User     string
	Relation string
	Object   string
}

func NewTuple(user, relation, object string) *Tuple {
	return &Tuple{
		User:     user,
		Relation: relation,
		Object:   object,
	}
}

type ClientInterface interface {
	Check(ctx context.Context, user, relation, object string, contextualTuples ...Tuple) (bool, error)
	ListObjects(ctx context.Context, user, relation, objectType string) ([]string, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}

var _ ClientInterface = (*Client)(nil)

type Client struct {
	c *client.OpenFgaClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(cfg *Config) *Client {
	fgaConfig := &client.ClientConfiguration{
		ApiUrl:               fmt.Sprintf("%s://%s", cfg.ApiScheme, cfg.ApiHost),
		StoreId:              cfg.StoreID,
		AuthorizationModelId: cfg.ModelID,
	}

	if cfg.ApiToken != "" {
		fgaConfig.Credentials = &credentials.Credentials{
			Method: credentials.CredentialsMethodApiToken,
			Config: &credentials.Config{
				ApiToken: cfg.ApiToken,
			},
		}
	}

	fgaClient, err := client.NewSdkClient(fgaConfig)
	if err != nil {
		cfg.Logger.Fatalf("failed to create openfga client: %v", err)
	}

	return &Client{
		c:       fgaClient,
		tracer:  cfg.Tracer,
		monitor: cfg.Monitor,
		logger:  cfg.Logger,
	}
}

func (c *Client) Check(ctx context.Context, user, relation, object string, contextualTuples ...Tuple) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.Check")
	defer span.End()

	body := client.ClientCheckRequest{
		User:     user,
		Relation: relation,
		Object:   object,
	}

	for _, t := range contextualTuples {
		body.ContextualTuples = append(body.ContextualTuples, client.ClientContextualTupleKey{
			User:     t.User,
			Relation: t.Relation,
			Object:   t.Object,
		})
	}

	resp, err := c.c.Check(ctx).Body(body).Execute()
	if err != nil {
		return false, fmt.Errorf("openfga check failed: %w", err)
	}

	return resp.GetAllowed(), nil
}

func (c *Client) ListObjects(ctx context.Context, user, relation, objectType string) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ListObjects")
	defer span.End()

	body := client.ClientListObjectsRequest{
		User:     user,
		Relation: relation,
		Type:     objectType,
	}

	resp, err := c.c.ListObjects(ctx).Body(body).Execute()
	if err != nil {
		return nil, fmt.Errorf("openfga list objects failed: %w", err)
	}

	return resp.GetObjects(), nil
}

func (c *Client) WriteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteTuple")
	defer span.End()

	body := client.ClientWriteRequest{
		Writes: []client.ClientTupleKey{
			{User: user, Relation: relation, Object: object},
		},
	}

	if _, err := c.c.Write(ctx).Body(body).Execute(); err != nil {
		return fmt.Errorf("openfga write tuple failed: %w", err)
	}

	return nil
}

func (c *Client) DeleteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.DeleteTuple")
	defer span.End()

	body := client.ClientWriteRequest{
		Deletes: []client.ClientTupleKeyWithoutCondition{
			{User: user, Relation: relation, Object: object},
		},
	}

	if _, err := c.c.Write(ctx).Body(body).Execute(); err != nil {
		return fmt.Errorf("openfga delete tuple failed: %w", err)
	}

	return nil
}
