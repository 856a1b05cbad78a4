package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/repository"
	"gorm.io/datatypes"
)

// Audit actions
const (
	AuditActionCreate    = "create"
	AuditActionCancel    = "cancel"
	AuditActionProduce   = "produce"
	AuditActionAdjust    = "adjust_stock"
	AuditActionReceive   = "receive_stock"
	AuditActionCharge    = "charge"
	AuditActionPayment   = "payment"
	AuditActionVendorTxn = "vendor_transaction"
)

// AuditEntry is one business action with optional before/after snapshots
type AuditEntry struct {
	ActorID  *uuid.UUID
	Action   string
	Model    string
	Previous map[string]interface{}
	New      map[string]interface{}
}

// AuditRecorder is the fire-and-forget audit sink. Record never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type auditLogRecorder struct {
	repo repository.AuditLogRepository
}

// NewAuditRecorder creates an AuditRecorder that persists to the audit_logs table
func NewAuditRecorder(repo repository.AuditLogRepository) AuditRecorder {
	return &auditLogRecorder{repo: repo}
}

func (r *auditLogRecorder) Record(ctx context.Context, entry AuditEntry) {
	record := &entity.AuditLog{
		UserID: entry.ActorID,
		Action: entry.Action,
		Model:  entry.Model,
	}
	if entry.Previous != nil {
		record.PreviousData = datatypes.JSONMap(entry.Previous)
	}
	if entry.New != nil {
		record.NewData = datatypes.JSONMap(entry.New)
	}

	if err := r.repo.Create(ctx, record); err != nil {
		log.Printf("Audit log error (%s %s): %v", entry.Action, entry.Model, err)
	}
}

// OrganizationInfo is the institution identity printed on receipts
type OrganizationInfo struct {
	Name    string
	Address string
}

// OrganizationInfoProvider supplies the current organization identity
type OrganizationInfoProvider interface {
	Info(ctx context.Context) (OrganizationInfo, error)
}

type staticOrganization struct {
	info OrganizationInfo
}

// NewStaticOrganization returns a provider that always reports the configured identity
func NewStaticOrganization(name, address string) OrganizationInfoProvider {
	return &staticOrganization{info: OrganizationInfo{Name: name, Address: address}}
}

func (o *staticOrganization) Info(ctx context.Context) (OrganizationInfo, error) {
	return o.info, nil
}
