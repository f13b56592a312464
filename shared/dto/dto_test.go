package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodging/shared/dto"
	"lodging/shared/model"
	"lodging/shared/timezone"
)

func TestNewMetadata(t *testing.T) {
	timezone.SetLocation(time.UTC)
	t.Cleanup(func() { timezone.SetLocation(nil) })

	stamped := model.NewMetadata("tenant-1", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	stamped.ModifiedAt = time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	stamped.ModifiedBy = "tenant-2"

	metadata := dto.NewMetadata(stamped)

	assert.Equal(t, dto.Metadata{
		CreatedAt:  "2026-01-01T12:00:00Z",
		ModifiedAt: "2026-01-02T12:00:00Z",
		CreatedBy:  "tenant-1",
		ModifiedBy: "tenant-2",
	}, metadata)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "page=2&limit=20&sort_by=number&sort_dir=desc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "number", SortDir: dto.SortDirDesc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			want:         dto.QueryParams{Page: 1, Limit: 10},
		},
		{
			name:  "no defaults",
			query: "sort_by=capacity",
			want:  dto.QueryParams{SortBy: "capacity"},
		},
		{
			name:         "malformed values fall back",
			query:        "page=zero&limit=-5&sort_dir=sideways",
			withDefaults: true,
			want:         dto.QueryParams{Page: 1, Limit: 10},
		},
		{
			name:  "limit is capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/rooms?"+tt.query, nil)

			var params dto.QueryParams
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq",
			filter:    dto.Filter{Field: "number", Value: "101", Operator: dto.FilterOperatorEq, Table: "rooms"},
			wantWhere: "rooms.number = :number",
			wantArgs:  map[string]any{"number": "101"},
		},
		{
			name:      "not eq with arg name",
			filter:    dto.Filter{ArgName: "exclude", Field: "id", Value: "g1", Operator: dto.FilterOperatorNotEq},
			wantWhere: "id != :exclude",
			wantArgs:  map[string]any{"exclude": "g1"},
		},
		{
			name:      "greater eq",
			filter:    dto.Filter{Field: "occupied_beds", Value: 1, Operator: dto.FilterOperatorGreaterEq, Table: "rooms"},
			wantWhere: "rooms.occupied_beds >= :occupied_beds",
			wantArgs:  map[string]any{"occupied_beds": 1},
		},
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "name", Value: "50%_off", Operator: dto.FilterOperatorLike, Table: "agents"},
			wantWhere: "LOWER(agents.name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": `%50\%\_off%`},
		},
		{
			name:      "in",
			filter:    dto.Filter{Field: "id", Value: []string{"r1", "r2"}, Operator: dto.FilterOperatorIn, Table: "rooms"},
			wantWhere: "rooms.id IN (:id_0, :id_1)",
			wantArgs:  map[string]any{"id_0": "r1", "id_1": "r2"},
		},
		{
			name:      "in with single value",
			filter:    dto.Filter{Field: "id", Value: "r1", Operator: dto.FilterOperatorIn},
			wantWhere: "id IN (:id_0)",
			wantArgs:  map[string]any{"id_0": "r1"},
		},
		{
			name:      "in with empty list",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "agent_id", Operator: dto.FilterIsNull, Table: "guests"},
			wantWhere: "guests.agent_id IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "id", Value: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "tenant_id", Value: "t1", Operator: dto.FilterOperatorEq, Table: "rooms"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "assigned_agent_id", Operator: dto.FilterIsNotNull, Table: "rooms"},
					dto.Filter{Field: "occupied_beds", Value: 0, Operator: dto.FilterOperatorEq, Table: "rooms"},
				},
			},
			dto.FilterGroup{},
			"ignored",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(rooms.tenant_id = :tenant_id AND (rooms.assigned_agent_id IS NOT NULL OR rooms.occupied_beds = :occupied_beds))", where)
	assert.Equal(t, map[string]any{"tenant_id": "t1", "occupied_beds": 0}, args)

	empty := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}
