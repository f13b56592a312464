package model

import "lodging/shared/model"

const (
	TableName  = "agents"
	EntityName = "agent"

	FieldID       = "id"
	FieldTenantID = "tenant_id"
	FieldName     = "name"
)

type Agent struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
	model.Metadata
}
