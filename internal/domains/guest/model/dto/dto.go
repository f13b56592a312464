package dto

import (
	"encoding/json"
	"time"

	"lodging/internal/domains/guest/model"
	"lodging/internal/domains/occupancy"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	gModel "lodging/shared/model"
	"lodging/shared/timezone"

	"github.com/google/uuid"
)

var sortColumns = map[string]string{
	"name":                    model.TableName + "." + model.FieldName,
	"check_in_date":           model.TableName + "." + model.FieldCheckInDate,
	"expected_check_out_date": model.TableName + "." + model.FieldExpectedCheckOutDate,
	"checked_out_date":        model.TableName + "." + model.FieldCheckedOutDate,
	"created_at":              model.TableName + "." + constant.FieldCreatedAt,
	"room_number":             model.RoomTable + ".number",
	"agent_name":              model.AgentTable + ".name",
}

// SortColumn maps a requested sort field to its qualified column, falling back to newest check-in.
func SortColumn(sortBy string) string {
	if column, ok := sortColumns[sortBy]; ok {
		return column
	}

	return model.TableName + "." + model.FieldCheckInDate
}

// ValidateStay rejects an expected checkout that is not strictly after check-in.
func ValidateStay(checkIn time.Time, expectedCheckOut *time.Time) error {
	if expectedCheckOut != nil && !expectedCheckOut.After(checkIn) {
		return failure.BadRequestFromString("expected_check_out_date must be after check_in_date") // nolint:wrapcheck
	}

	return nil
}

type CheckInRequest struct {
	Name                 string     `json:"name"                    validate:"required,max=100"`
	RoomID               string     `json:"room_id"                 validate:"required,uuid"`
	AgentID              *string    `json:"agent_id"                validate:"omitempty,agentid"`
	CheckInDate          *time.Time `json:"check_in_date"           validate:"omitempty"`
	ExpectedCheckOutDate *time.Time `json:"expected_check_out_date" validate:"omitempty"`
}

func (c *CheckInRequest) ToModel(tenantID string) model.Guest {
	now := timezone.Now()

	checkIn := now
	if c.CheckInDate != nil {
		checkIn = *c.CheckInDate
	}

	var agentID *string
	if c.AgentID != nil {
		if normalized := occupancy.NormalizeAgentID(*c.AgentID); normalized != constant.Empty {
			agentID = &normalized
		}
	}

	return model.Guest{
		ID:                   uuid.NewString(),
		TenantID:             tenantID,
		Name:                 c.Name,
		AgentID:              agentID,
		RoomID:               c.RoomID,
		CheckInDate:          checkIn,
		ExpectedCheckOutDate: c.ExpectedCheckOutDate,
		Metadata: gModel.NewMetadata(tenantID, now),
	}
}

// OptionalString tells an absent JSON field apart from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string `validate:"omitempty,agentid"`
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == constant.Null {
		o.Value = nil

		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err //nolint:wrapcheck
	}

	o.Value = &value

	return nil
}

// Normalized returns the agent id the field asks for, empty when it clears the agent.
func (o OptionalString) Normalized() string {
	if o.Value == nil {
		return constant.Empty
	}

	return occupancy.NormalizeAgentID(*o.Value)
}

type UpdateGuestRequest struct {
	Name                 *string        `json:"name"                    validate:"omitempty,min=1,max=100"`
	RoomID               *string        `json:"room_id"                 validate:"omitempty,uuid"`
	AgentID              OptionalString `json:"agent_id"`
	CheckInDate          *time.Time     `json:"check_in_date"           validate:"omitempty"`
	ExpectedCheckOutDate *time.Time     `json:"expected_check_out_date" validate:"omitempty"`
}

// Apply merges the request into current and returns the result with the changed columns.
func (u *UpdateGuestRequest) Apply(current model.Guest, user string) (model.Guest, map[string]any) {
	next := current
	fields := map[string]any{}

	if u.Name != nil && *u.Name != current.Name {
		next.Name = *u.Name
		fields[model.FieldName] = next.Name
	}

	if u.RoomID != nil && *u.RoomID != current.RoomID {
		next.RoomID = *u.RoomID
		fields[model.FieldRoomID] = next.RoomID
	}

	if u.AgentID.Set {
		next.AgentID = nil
		if agentID := u.AgentID.Normalized(); agentID != constant.Empty {
			next.AgentID = &agentID
		}

		if next.Agent() != current.Agent() {
			fields[model.FieldAgentID] = next.AgentID
		}
	}

	if u.CheckInDate != nil {
		next.CheckInDate = *u.CheckInDate
		fields[model.FieldCheckInDate] = next.CheckInDate
	}

	if u.ExpectedCheckOutDate != nil {
		next.ExpectedCheckOutDate = u.ExpectedCheckOutDate
		fields[model.FieldExpectedCheckOutDate] = next.ExpectedCheckOutDate
	}

	if len(fields) > 0 {
		next.ModifiedAt = timezone.Now()
		next.ModifiedBy = user
		fields[constant.FieldModifiedAt] = next.ModifiedAt
		fields[constant.FieldModifiedBy] = user
	}

	return next, fields
}

// DatesChanged reports whether the request touches either stay date.
func (u *UpdateGuestRequest) DatesChanged() bool {
	return u.CheckInDate != nil || u.ExpectedCheckOutDate != nil
}

// GuestFilter narrows a guest listing. AgentID "null" selects direct guests.
type GuestFilter struct {
	CheckedOut *bool
	RoomID     string
	AgentID    string
}

func (f GuestFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.CheckedOut != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldCheckedOut, Value: *f.CheckedOut, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.RoomID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRoomID, Value: f.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	switch {
	case f.AgentID == constant.Empty:
	case occupancy.NormalizeAgentID(f.AgentID) == constant.Empty:
		filters = append(filters, gDto.Filter{Field: model.FieldAgentID, Operator: gDto.FilterIsNull, Table: model.TableName})
	default:
		filters = append(filters, gDto.Filter{Field: model.FieldAgentID, Value: f.AgentID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}

// SearchFilter matches active guests by guest name, room number or agent name.
func SearchFilter(q string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCheckedOut, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{ArgName: "q_guest", Field: model.FieldName, Value: q, Operator: gDto.FilterOperatorLike, Table: model.TableName},
					gDto.Filter{ArgName: "q_room", Field: "number", Value: q, Operator: gDto.FilterOperatorLike, Table: model.RoomTable},
					gDto.Filter{ArgName: "q_agent", Field: "name", Value: q, Operator: gDto.FilterOperatorLike, Table: model.AgentTable},
				},
			},
		},
	}
}

type GuestResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	RoomID               string  `json:"room_id"`
	RoomNumber           string  `json:"room_number,omitempty"`
	RoomCapacity         int     `json:"room_capacity,omitempty"`
	AgentID              *string `json:"agent_id"`
	AgentName            *string `json:"agent_name"`
	CheckInDate          string  `json:"check_in_date"`
	ExpectedCheckOutDate *string `json:"expected_check_out_date"`
	CheckedOut           bool    `json:"checked_out"`
	CheckedOutDate       *string `json:"checked_out_date"`
	gDto.Metadata
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func (r *GuestResponse) FromModel(model model.GuestDetail) {
	r.ID = model.ID
	r.Name = model.Name
	r.RoomID = model.RoomID
	r.AgentID = model.AgentID
	r.AgentName = model.AgentName
	r.CheckInDate = timezone.Format(model.CheckInDate, constant.DateFormat)
	r.ExpectedCheckOutDate = formatOptional(model.ExpectedCheckOutDate)
	r.CheckedOut = model.CheckedOut
	r.CheckedOutDate = formatOptional(model.CheckedOutDate)

	if model.RoomNumber != nil {
		r.RoomNumber = *model.RoomNumber
	}

	if model.RoomCapacity != nil {
		r.RoomCapacity = *model.RoomCapacity
	}

	r.Metadata = gDto.NewMetadata(model.Metadata)
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetGuestsResponse) FromModels(models []model.GuestDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		r.Guests[i].FromModel(mod)
	}
}
