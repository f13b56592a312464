package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"lodging/config"
	"lodging/infras/otel/mocks"
	s3Mocks "lodging/infras/s3/mocks"
	guestDto "lodging/internal/domains/guest/model/dto"
	"lodging/internal/domains/occupancy"
	occupancyMocks "lodging/internal/domains/occupancy/mocks"
	roomMocks "lodging/internal/domains/room/mocks"
	"lodging/internal/domains/room/model"
	"lodging/internal/domains/room/model/dto"
	"lodging/internal/domains/room/service"
	serviceMocks "lodging/internal/domains/room/service/mocks"
	cacheMocks "lodging/shared/cache/mocks"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	repoMocks "lodging/shared/repository/mocks"
)

const tenant = "tenant-1"

type roomFixture struct {
	repo   *roomMocks.MockRoom
	ledger *occupancyMocks.MockLedger
	guests *serviceMocks.MockGuestLister
	engine *occupancyMocks.MockEngine
	cache  *cacheMocks.MockRedisCache
	s3     *s3Mocks.MockS3
	svc    service.Room
}

func newRoomFixture(t *testing.T) *roomFixture {
	ctrl := gomock.NewController(t)

	f := &roomFixture{
		repo:   roomMocks.NewMockRoom(ctrl),
		ledger: occupancyMocks.NewMockLedger(ctrl),
		guests: serviceMocks.NewMockGuestLister(ctrl),
		engine: occupancyMocks.NewMockEngine(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
		s3:     s3Mocks.NewMockS3(ctrl),
	}

	transactor := repoMocks.NewMockTransactor(ctrl)
	transactor.EXPECT().
		Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		}).
		AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Occupancy.ReconcileConcurrency = 2
	cfg.External.S3.BucketName = "rooms"

	f.svc = service.New(f.repo, f.ledger, f.guests, f.engine, transactor, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func tenantCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, tenant)
}

func agentID(id string) *string {
	return &id
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "successful creation",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, tenant, room.TenantID)
						assert.Zero(t, room.OccupiedBeds)
						assert.Nil(t, room.AssignedAgentID)

						return nil
					})
				f.cache.EXPECT().Clear(gomock.Any(), "room:"+tenant+":*").Return(nil)
			},
		},
		{
			name: "duplicate number",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "repository error",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoomFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tenantCtx(), dto.CreateRoomRequest{Number: "101", Capacity: 2})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, occupancy.ModeEmpty, res.Mode)
				assert.Equal(t, 2, res.AvailableBeds)
			}
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().Get(gomock.Any(), "room:"+tenant+":get:r1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, _ := value.(*dto.RoomResponse)
						res.ID = "r1"

						return nil
					})
			},
		},
		{
			name: "cache miss loads and saves",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Room{ID: "r1", TenantID: tenant, Number: "101", Capacity: 3, AssignedAgentID: agentID("a1"), OccupiedBeds: 3}, nil)
				f.cache.EXPECT().Save(gomock.Any(), "room:"+tenant+":get:r1", gomock.Any(), 3600).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoomFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(tenantCtx(), "r1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "r1", res.ID)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	f := newRoomFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Room, error) {
			assert.Equal(t, "rooms.capacity", params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			return []model.Room{
				{ID: "r1", Number: "101", Capacity: 2, OccupiedBeds: 1},
				{ID: "r2", Number: "102", Capacity: 4, OccupiedBeds: 4, AssignedAgentID: agentID("a1")},
			}, nil
		})
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.GetAll(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "capacity"}, dto.RoomFilter{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, occupancy.ModeDirect, res.Rooms[0].Mode)
	assert.Equal(t, occupancy.ModeAgentLeased, res.Rooms[1].Mode)
	assert.Zero(t, res.Rooms[1].AvailableBeds)
}

func TestRoomService_Update(t *testing.T) {
	current := model.Room{ID: "r1", TenantID: tenant, Number: "101", Capacity: 3, OccupiedBeds: 2}
	capacity := func(n int) *int { return &n }
	number := func(s string) *string { return &s }

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(f *roomFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "capacity change recomputed",
			req:  dto.UpdateRoomRequest{Capacity: capacity(2)},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{current}, nil)
				f.engine.EXPECT().Recompute(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, room model.Room) (model.Room, error) {
						assert.Equal(t, 2, room.Capacity)

						return room, nil
					})
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, 2, fields[model.FieldCapacity])
						assert.Equal(t, 2, fields[model.FieldOccupiedBeds])

						return nil
					})
				f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "capacity below direct occupancy",
			req:  dto.UpdateRoomRequest{Capacity: capacity(1)},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{current}, nil)
				f.engine.EXPECT().Recompute(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Room{}, failure.RoomFull("2 guests exceed capacity 1"))
			},
			wantErr:  true,
			wantKind: failure.KindRoomFull,
		},
		{
			name: "number taken",
			req:  dto.UpdateRoomRequest{Number: number("102")},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{current}, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "nothing changes",
			req:  dto.UpdateRoomRequest{Number: number("101")},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{current}, nil)
				f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			req:  dto.UpdateRoomRequest{Capacity: capacity(5)},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoomFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Update(tenantCtx(), tt.req, "r1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "successful delete removes image",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").
					Return([]model.Room{{ID: "r1", TenantID: tenant, Image: "https://cdn/room/a.png"}}, nil)
				f.ledger.EXPECT().ActiveClaimsTx(gomock.Any(), gomock.Any(), tenant, "r1", "").Return(nil, nil)
				f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)
				f.s3.EXPECT().GetObjectNameFromURL("rooms", "https://cdn/room/a.png").Return("a.png")
				f.s3.EXPECT().DeleteFile(gomock.Any(), "rooms", model.EntityName, "a.png").Return(nil)
			},
		},
		{
			name: "active guests block delete",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{{ID: "r1", TenantID: tenant}}, nil)
				f.ledger.EXPECT().ActiveClaimsTx(gomock.Any(), gomock.Any(), tenant, "r1", "").
					Return([]occupancy.Claim{{GuestID: "g1"}}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindHasActiveDependents,
		},
		{
			name: "not found",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return(nil, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoomFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(tenantCtx(), "r1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Guests(t *testing.T) {
	t.Run("room of another tenant", func(t *testing.T) {
		f := newRoomFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Guests(tenantCtx(), gDto.QueryParams{}, "r1")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})

	t.Run("lists newest check-in first", func(t *testing.T) {
		f := newRoomFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.guests.EXPECT().GetAll(gomock.Any(), gomock.Any(), guestDto.GuestFilter{RoomID: "r1"}).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ guestDto.GuestFilter) (guestDto.GetGuestsResponse, error) {
				assert.Equal(t, "check_in_date", params.SortBy)
				assert.Equal(t, gDto.SortDirDesc, params.SortDir)

				return guestDto.GetGuestsResponse{TotalData: 1}, nil
			})

		res, err := f.svc.Guests(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 10}, "r1")
		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
	})
}

func TestRoomService_UploadImage(t *testing.T) {
	req := dto.UploadImageRequest{Image: &multipart.FileHeader{Filename: "photo.png"}}

	t.Run("replaces old image", func(t *testing.T) {
		f := newRoomFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", TenantID: tenant, Image: "https://cdn/room/old.png"}, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), "rooms", model.EntityName, gomock.Any(), req.Image, gomock.Any()).Return("https://cdn/room/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL("rooms", "https://cdn/room/old.png").Return("old.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), "rooms", model.EntityName, "old.png").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.UploadImage(tenantCtx(), req, "r1")
		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/room/new.png", res.Image)
	})

	t.Run("row update fails removes new object", func(t *testing.T) {
		f := newRoomFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", TenantID: tenant}, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/room/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
		f.s3.EXPECT().DeleteFile(gomock.Any(), "rooms", model.EntityName, gomock.Any()).Return(nil)

		_, err := f.svc.UploadImage(tenantCtx(), req, "r1")
		assert.Error(t, err)
	})
}

func TestRoomService_Report(t *testing.T) {
	f := newRoomFixture(t)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{
		{ID: "r1", Number: "101", Capacity: 2, OccupiedBeds: 1},
		{ID: "r2", Number: "102", Capacity: 4, OccupiedBeds: 4, AssignedAgentID: agentID("a1")},
	}, nil)

	raw, err := f.svc.Report(tenantCtx())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Occupancy")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Room", "Capacity", "Occupied Beds", "Available Beds", "Mode", "Agent"}, rows[0])
	assert.Equal(t, []string{"101", "2", "1", "1", "direct"}, rows[1][:5])
	assert.Equal(t, []string{"102", "4", "4", "0", "agent_leased", "a1"}, rows[2])
}

func TestRoomService_ReconcileAll(t *testing.T) {
	drifted := model.Room{ID: "r1", TenantID: tenant, Number: "101", Capacity: 2, OccupiedBeds: 2}
	clean := model.Room{ID: "r2", TenantID: tenant, Number: "102", Capacity: 2}
	broken := model.Room{ID: "r3", TenantID: tenant, Number: "103", Capacity: 2}

	t.Run("fixes drift and reports failures", func(t *testing.T) {
		f := newRoomFixture(t)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Room{drifted, clean, broken}, nil)

		for _, room := range []model.Room{drifted, clean, broken} {
			f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, room.ID).Return([]model.Room{room}, nil)
		}

		fixed := drifted
		fixed.OccupiedBeds = 1
		f.engine.EXPECT().Reconcile(gomock.Any(), gomock.Any(), drifted).Return(fixed, true, nil)
		f.engine.EXPECT().Reconcile(gomock.Any(), gomock.Any(), clean).Return(clean, false, nil)
		f.engine.EXPECT().Reconcile(gomock.Any(), gomock.Any(), broken).Return(broken, false, failure.AgentConflict("two agents"))
		f.cache.EXPECT().Clear(gomock.Any(), "room:"+tenant+":*").Return(nil)

		res, err := f.svc.ReconcileAll(context.Background(), tenant, false)
		require.NoError(t, err)

		assert.Equal(t, 3, res.Checked)
		assert.Equal(t, 1, res.Drifted)
		assert.Equal(t, 1, res.Updated)
		assert.Equal(t, 1, res.Failed)
		require.Len(t, res.Rooms, 2)
		assert.Equal(t, occupancy.Direct(2), res.Rooms[0].Before)
		assert.Equal(t, occupancy.Direct(1), res.Rooms[0].After)
		assert.Equal(t, string(failure.KindAgentConflict), res.Rooms[1].Kind)
	})

	t.Run("dry run never writes", func(t *testing.T) {
		f := newRoomFixture(t)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Room{drifted}, nil)
		f.repo.EXPECT().LockTx(gomock.Any(), gomock.Any(), tenant, "r1").Return([]model.Room{drifted}, nil)

		fixed := drifted
		fixed.OccupiedBeds = 0
		f.engine.EXPECT().Recompute(gomock.Any(), gomock.Any(), drifted).Return(fixed, nil)

		res, err := f.svc.ReconcileAll(context.Background(), tenant, true)
		require.NoError(t, err)

		assert.True(t, res.DryRun)
		assert.Equal(t, 1, res.Drifted)
		assert.Zero(t, res.Updated)
		assert.Equal(t, occupancy.Empty(), res.Rooms[0].After)
	})
}
