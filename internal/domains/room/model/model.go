package model

import "lodging/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID              = "id"
	FieldTenantID        = "tenant_id"
	FieldNumber          = "number"
	FieldCapacity        = "capacity"
	FieldOccupiedBeds    = "occupied_beds"
	FieldAssignedAgentID = "assigned_agent_id"
	FieldImage           = "image"

	// CachePrefix scopes every cached room read. Writers elsewhere clear it per tenant.
	CachePrefix = "room"
)

// Room holds the denormalized occupancy of one room. OccupiedBeds and AssignedAgentID
// are written only by the occupancy engine.
type Room struct {
	ID              string  `db:"id"`
	TenantID        string  `db:"tenant_id"`
	Number          string  `db:"number"`
	Capacity        int     `db:"capacity"`
	OccupiedBeds    int     `db:"occupied_beds"`
	AssignedAgentID *string `db:"assigned_agent_id"`
	Image           string  `db:"image"`
	model.Metadata
}

func (r Room) AgentID() string {
	if r.AssignedAgentID == nil {
		return ""
	}

	return *r.AssignedAgentID
}
