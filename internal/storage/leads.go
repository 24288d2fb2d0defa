// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/tenant-admin/internal/db"
	"github.com/canonical/tenant-admin/internal/types"
)

func (s *Storage) CreateLead(ctx context.Context, l *types.Lead) (*types.Lead, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateLead")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate lead ID: %w", err)
	}

	var newLead types.Lead
	err = s.db.Statement(ctx).
		Insert("leads").
		Columns("id", "tenant_id", "name", "email", "phone", "source", "status").
		Values(id.String(), l.TenantID, l.Name, l.Email, l.Phone, l.Source, l.Status).
		Suffix("RETURNING id, tenant_id, name, email, phone, source, status, created_at").
		QueryRowContext(ctx).
		Scan(&newLead.ID, &newLead.TenantID, &newLead.Name, &newLead.Email, &newLead.Phone, &newLead.Source, &newLead.Status, &newLead.CreatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}

	return &newLead, nil
}

// ListLeadsByTenantID returns leads for a tenant, newest first.
func (s *Storage) ListLeadsByTenantID(ctx context.Context, tenantID string, page, size int64) ([]*types.Lead, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListLeadsByTenantID")
	defer span.End()

	pageSize := db.PageSize(size)

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "name", "email", "phone", "source", "status", "created_at").
		From("leads").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC").
		Limit(pageSize).
		Offset(db.Offset(page, pageSize))

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*types.Lead
	for rows.Next() {
		var l types.Lead
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return leads, nil
}

// UpdateLeadStatus moves a lead through its label set ("new", "contacted", ...).
// The tenant predicate keeps a caller from reaching across workspaces.
func (s *Storage) UpdateLeadStatus(ctx context.Context, tenantID, leadID, status string) error {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateLeadStatus")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("leads").
		Set("status", status).
		Where(sq.Eq{"id": leadID, "tenant_id": tenantID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) DeleteLead(ctx context.Context, tenantID, leadID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteLead")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("leads").
		Where(sq.Eq{"id": leadID, "tenant_id": tenantID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
