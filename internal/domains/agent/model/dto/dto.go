package dto

import (
	"lodging/internal/domains/agent/model"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	gModel "lodging/shared/model"
	"lodging/shared/timezone"

	"github.com/google/uuid"
)

var sortColumns = map[string]string{
	"name":       model.TableName + "." + model.FieldName,
	"created_at": model.TableName + "." + constant.FieldCreatedAt,
}

func SortColumn(sortBy string) string {
	if column, ok := sortColumns[sortBy]; ok {
		return column
	}

	return model.TableName + "." + model.FieldName
}

type CreateAgentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (c *CreateAgentRequest) ToModel(tenantID string) model.Agent {
	now := timezone.Now()

	return model.Agent{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     c.Name,
		Metadata: gModel.NewMetadata(tenantID, now),
	}
}

type UpdateAgentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AgentFilter struct {
	Name string
}

func (f AgentFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.Name != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldName, Value: f.Name, Operator: gDto.FilterOperatorLike, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}

type AgentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	gDto.Metadata
}

func (r *AgentResponse) FromModel(model model.Agent) {
	r.ID = model.ID
	r.Name = model.Name
	r.Metadata = gDto.NewMetadata(model.Metadata)
}

type GetAgentsResponse struct {
	Agents    []AgentResponse `json:"agents"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetAgentsResponse) FromModels(models []model.Agent, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Agents = make([]AgentResponse, len(models))
	for i, mod := range models {
		r.Agents[i].FromModel(mod)
	}
}
