// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"slices"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/openfga"
	"github.com/canonical/tenant-admin/internal/roles"
	"github.com/canonical/tenant-admin/internal/tracing"
)

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, user string, relation string, object string, contextualTuples ...openfga.Tuple) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	return a.client.Check(ctx, user, relation, object, contextualTuples...)
}

func (a *Authorizer) ListObjects(ctx context.Context, user string, relation string, objectType string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ListObjects")
	defer span.End()

	return a.client.ListObjects(ctx, user, relation, objectType)
}

func (a *Authorizer) FilterObjects(ctx context.Context, user string, relation string, objectType string, objs []string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.FilterObjects")
	defer span.End()

	allowedObjs, err := a.ListObjects(ctx, user, relation, objectType)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, obj := range allowedObjs {
		if slices.Contains(objs, obj) {
			ret = append(ret, obj)
		}
	}
	return ret, nil
}

func (a *Authorizer) AssignTenantRole(ctx context.Context, tenantId, userId string, role roles.Role) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignTenantRole")
	defer span.End()

	relation := RoleRelation(role)
	if relation == "" {
		return nil
	}

	// A user holds exactly one role relation per tenant. Delete the others
	// before writing, tolerating tuples that were never there.
	for _, r := range roles.All() {
		other := RoleRelation(r)
		if other == "" || other == relation {
			continue
		}
		if err := a.client.DeleteTuple(ctx, UserTuple(userId), other, TenantTuple(tenantId)); err != nil {
			a.logger.Debugf("ignoring delete of absent tuple %s/%s: %s", other, tenantId, err)
		}
	}

	return a.client.WriteTuple(ctx, UserTuple(userId), relation, TenantTuple(tenantId))
}

func (a *Authorizer) RemoveTenantRole(ctx context.Context, tenantId, userId string, role roles.Role) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveTenantRole")
	defer span.End()

	relation := RoleRelation(role)
	if relation == "" {
		return nil
	}

	return a.client.DeleteTuple(ctx, UserTuple(userId), relation, TenantTuple(tenantId))
}

func (a *Authorizer) CheckTenantAccess(ctx context.Context, tenantId, userId, relation string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckTenantAccess")
	defer span.End()

	return a.Check(ctx, UserTuple(userId), relation, TenantTuple(tenantId))
}

func (a *Authorizer) DeleteTenant(ctx context.Context, tenantId string, memberIds []string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.DeleteTenant")
	defer span.End()

	for _, userId := range memberIds {
		for _, r := range roles.All() {
			relation := RoleRelation(r)
			if relation == "" {
				continue
			}
			if err := a.client.DeleteTuple(ctx, UserTuple(userId), relation, TenantTuple(tenantId)); err != nil {
				a.logger.Debugf("ignoring delete of absent tuple %s/%s: %s", relation, tenantId, err)
			}
		}
	}
	return nil
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
