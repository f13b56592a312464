package dto

import (
	"mime/multipart"

	"lodging/internal/domains/occupancy"
	"lodging/internal/domains/room/model"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	gModel "lodging/shared/model"
	"lodging/shared/timezone"

	"github.com/google/uuid"
)

var sortColumns = map[string]string{
	"number":        model.TableName + "." + model.FieldNumber,
	"capacity":      model.TableName + "." + model.FieldCapacity,
	"occupied_beds": model.TableName + "." + model.FieldOccupiedBeds,
	"created_at":    model.TableName + "." + constant.FieldCreatedAt,
}

// SortColumn maps a requested sort field to its column, defaulting to the room number.
func SortColumn(sortBy string) string {
	if column, ok := sortColumns[sortBy]; ok {
		return column
	}

	return model.TableName + "." + model.FieldNumber
}

type CreateRoomRequest struct {
	Number   string `json:"number"   validate:"required,max=20"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// ToModel builds an empty room owned by tenantID.
func (c *CreateRoomRequest) ToModel(tenantID string) model.Room {
	now := timezone.Now()

	return model.Room{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Number:   c.Number,
		Capacity: c.Capacity,
		Metadata: gModel.NewMetadata(tenantID, now),
	}
}

type UpdateRoomRequest struct {
	Number   *string `json:"number"   validate:"omitempty,min=1,max=20"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
}

// Apply merges the request into current. The occupancy columns are left to the engine.
func (u *UpdateRoomRequest) Apply(current model.Room) model.Room {
	next := current

	if u.Number != nil {
		next.Number = *u.Number
	}

	if u.Capacity != nil {
		next.Capacity = *u.Capacity
	}

	return next
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
}

// RoomFilter narrows a room listing by a number fragment and by occupancy mode.
type RoomFilter struct {
	Number string
	Mode   string `validate:"omitempty,oneof=empty direct agent_leased"`
}

func (f RoomFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.Number != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldNumber, Value: f.Number, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	switch occupancy.Mode(f.Mode) {
	case occupancy.ModeEmpty:
		filters = append(filters, gDto.Filter{Field: model.FieldOccupiedBeds, Value: 0, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	case occupancy.ModeDirect:
		filters = append(filters,
			gDto.Filter{Field: model.FieldAssignedAgentID, Operator: gDto.FilterIsNull, Table: model.TableName},
			gDto.Filter{Field: model.FieldOccupiedBeds, Value: 1, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		)
	case occupancy.ModeAgentLeased:
		filters = append(filters, gDto.Filter{Field: model.FieldAssignedAgentID, Operator: gDto.FilterIsNotNull, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}

type RoomResponse struct {
	ID              string         `json:"id"`
	Number          string         `json:"number"`
	Capacity        int            `json:"capacity"`
	OccupiedBeds    int            `json:"occupied_beds"`
	AvailableBeds   int            `json:"available_beds"`
	Mode            occupancy.Mode `json:"mode"`
	AssignedAgentID *string        `json:"assigned_agent_id"`
	Image           string         `json:"image"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Capacity = model.Capacity
	r.OccupiedBeds = model.OccupiedBeds
	r.AvailableBeds = max(model.Capacity-model.OccupiedBeds, 0)
	r.Mode = occupancy.StateOf(model).Mode
	r.AssignedAgentID = model.AssignedAgentID
	r.Image = model.Image
	r.Metadata = gDto.NewMetadata(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// ReconcileRoomResult is the drift found on one room. Error is set when the room could not be
// recomputed, e.g. two agents claim it.
type ReconcileRoomResult struct {
	RoomID   string          `json:"room_id"`
	TenantID string          `json:"tenant_id"`
	Number   string          `json:"number"`
	Before   occupancy.State `json:"before"`
	After    occupancy.State `json:"after"`
	Drifted  bool            `json:"drifted"`
	Updated  bool            `json:"updated"`
	Error    string          `json:"error,omitempty"`
	Kind     string          `json:"kind,omitempty"`
}

type ReconcileResponse struct {
	DryRun  bool                  `json:"dry_run"`
	Checked int                   `json:"checked"`
	Drifted int                   `json:"drifted"`
	Updated int                   `json:"updated"`
	Failed  int                   `json:"failed"`
	Rooms   []ReconcileRoomResult `json:"rooms"`
}

// Add folds one room's result into the totals. Only drifted or failed rooms are listed.
func (r *ReconcileResponse) Add(result ReconcileRoomResult) {
	r.Checked++

	if result.Drifted {
		r.Drifted++
	}

	if result.Updated {
		r.Updated++
	}

	if result.Error != constant.Empty {
		r.Failed++
	}

	if result.Drifted || result.Error != constant.Empty {
		r.Rooms = append(r.Rooms, result)
	}
}
