package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodging/config"
	"lodging/infras/otel/mocks"
	agentMocks "lodging/internal/domains/agent/mocks"
	"lodging/internal/domains/agent/model"
	"lodging/internal/domains/agent/model/dto"
	"lodging/internal/domains/agent/service"
	serviceMocks "lodging/internal/domains/agent/service/mocks"
	guestDto "lodging/internal/domains/guest/model/dto"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	gRepo "lodging/shared/repository"
	repoMocks "lodging/shared/repository/mocks"
)

const tenant = "tenant-1"

type agentFixture struct {
	repo   *agentMocks.MockAgent
	ledger *serviceMocks.MockGuestLedger
	guests *serviceMocks.MockGuestLister
	svc    service.Agent
}

func newAgentFixture(t *testing.T) *agentFixture {
	ctrl := gomock.NewController(t)

	f := &agentFixture{
		repo:   agentMocks.NewMockAgent(ctrl),
		ledger: serviceMocks.NewMockGuestLedger(ctrl),
		guests: serviceMocks.NewMockGuestLister(ctrl),
	}

	transactor := repoMocks.NewMockTransactor(ctrl)
	transactor.EXPECT().
		Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		}).
		AnyTimes()

	f.svc = service.New(f.repo, f.ledger, f.guests, transactor, &config.Config{}, mocks.NewOtel())

	return f
}

func tenantCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, tenant)
}

func TestAgentService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *agentFixture)
		wantErr   bool
	}{
		{
			name: "successful creation",
			setupMock: func(f *agentFixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, agent model.Agent) error {
						assert.Equal(t, tenant, agent.TenantID)
						assert.Equal(t, "Acme Tours", agent.Name)

						return nil
					})
			},
		},
		{
			name: "repository error",
			setupMock: func(f *agentFixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAgentFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tenantCtx(), dto.CreateAgentRequest{Name: "Acme Tours"})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
			}
		})
	}
}

func TestAgentService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newAgentFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Agent{ID: "a1", TenantID: tenant, Name: "Acme"}, nil)

		res, err := f.svc.Get(tenantCtx(), "a1")
		assert.NoError(t, err)
		assert.Equal(t, "Acme", res.Name)
	})

	t.Run("other tenant", func(t *testing.T) {
		f := newAgentFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Agent{}, nil)

		_, err := f.svc.Get(tenantCtx(), "a1")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})
}

func TestAgentService_GetAll(t *testing.T) {
	f := newAgentFixture(t)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Agent, error) {
			assert.Equal(t, "agents.name", params.SortBy)

			return []model.Agent{{ID: "a1", Name: "Acme"}}, nil
		})

	res, err := f.svc.GetAll(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 10}, dto.AgentFilter{Name: "ac"})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Agents, 1)
}

func TestAgentService_Update(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		f := newAgentFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Agent{ID: "a1", TenantID: tenant, Name: "Acme"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Acme Travel", fields[model.FieldName])

				return nil
			})

		res, err := f.svc.Update(tenantCtx(), dto.UpdateAgentRequest{Name: "Acme Travel"}, "a1")
		assert.NoError(t, err)
		assert.Equal(t, "Acme Travel", res.Name)
	})

	t.Run("not found", func(t *testing.T) {
		f := newAgentFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Agent{}, nil)

		_, err := f.svc.Update(tenantCtx(), dto.UpdateAgentRequest{Name: "x"}, "a1")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})
}

func TestAgentService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *agentFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "no active guests",
			setupMock: func(f *agentFixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gRepo.LockForUpdate, model.FieldID).Return(model.Agent{ID: "a1"}, nil)
				f.ledger.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
				f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "active guests",
			setupMock: func(f *agentFixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gRepo.LockForUpdate, model.FieldID).Return(model.Agent{ID: "a1"}, nil)
				f.ledger.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int, error) {
						where, args := filter.GetWhereClause()
						assert.Contains(t, where, "guests.checked_out = :checked_out")
						assert.Equal(t, "a1", args["agent_id"])

						return 2, nil
					})
			},
			wantErr:  true,
			wantKind: failure.KindHasActiveDependents,
		},
		{
			name: "not found",
			setupMock: func(f *agentFixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gRepo.LockForUpdate, model.FieldID).Return(model.Agent{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAgentFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(tenantCtx(), "a1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAgentService_Guests(t *testing.T) {
	f := newAgentFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.guests.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter guestDto.GuestFilter) (guestDto.GetGuestsResponse, error) {
			assert.Equal(t, "a1", filter.AgentID)
			assert.False(t, *filter.CheckedOut)

			return guestDto.GetGuestsResponse{TotalData: 2}, nil
		})

	res, err := f.svc.Guests(tenantCtx(), gDto.QueryParams{}, "a1")
	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
}
