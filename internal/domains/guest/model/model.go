package model

import (
	"time"

	"lodging/shared/model"
)

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID                   = "id"
	FieldTenantID             = "tenant_id"
	FieldName                 = "name"
	FieldAgentID              = "agent_id"
	FieldRoomID               = "room_id"
	FieldCheckInDate          = "check_in_date"
	FieldExpectedCheckOutDate = "expected_check_out_date"
	FieldCheckedOut           = "checked_out"
	FieldCheckedOutDate       = "checked_out_date"

	FieldRoomNumber   = "room_number"
	FieldRoomCapacity = "room_capacity"
	FieldAgentName    = "agent_name"

	RoomTable  = "rooms"
	AgentTable = "agents"
)

type Guest struct {
	ID                   string     `db:"id"`
	TenantID             string     `db:"tenant_id"`
	Name                 string     `db:"name"`
	AgentID              *string    `db:"agent_id"`
	RoomID               string     `db:"room_id"`
	CheckInDate          time.Time  `db:"check_in_date"`
	ExpectedCheckOutDate *time.Time `db:"expected_check_out_date"`
	CheckedOut           bool       `db:"checked_out"`
	CheckedOutDate       *time.Time `db:"checked_out_date"`
	model.Metadata
}

func (g Guest) Agent() string {
	if g.AgentID == nil {
		return ""
	}

	return *g.AgentID
}

// GuestDetail is a guest joined with the room and agent it references.
type GuestDetail struct {
	Guest
	RoomNumber   *string `column:"number"   db:"room_number"   table:"rooms"`
	RoomCapacity *int    `column:"capacity" db:"room_capacity" table:"rooms"`
	AgentName    *string `column:"name"     db:"agent_name"    table:"agents"`
}

func (GuestDetail) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = guests.room_id LEFT JOIN agents ON agents.id = guests.agent_id"
}
