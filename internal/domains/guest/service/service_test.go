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
	guestMocks "lodging/internal/domains/guest/mocks"
	"lodging/internal/domains/guest/model"
	"lodging/internal/domains/guest/model/dto"
	"lodging/internal/domains/guest/service"
	"lodging/internal/domains/occupancy"
	occupancyMocks "lodging/internal/domains/occupancy/mocks"
	cacheMocks "lodging/shared/cache/mocks"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	gModel "lodging/shared/model"
	repoMocks "lodging/shared/repository/mocks"
	"lodging/shared/timezone"
)

type guestFixture struct {
	repo       *guestMocks.MockGuest
	engine     *occupancyMocks.MockEngine
	transactor *repoMocks.MockTransactor
	cache      *cacheMocks.MockRedisCache
	svc        service.Guest
}

func newGuestFixture(t *testing.T) *guestFixture {
	ctrl := gomock.NewController(t)

	f := &guestFixture{
		repo:       guestMocks.NewMockGuest(ctrl),
		engine:     occupancyMocks.NewMockEngine(ctrl),
		transactor: repoMocks.NewMockTransactor(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	f.transactor.EXPECT().
		Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		}).
		AnyTimes()

	f.svc = service.New(f.repo, f.engine, f.transactor, &config.Config{}, f.cache, mocks.NewOtel())

	return f
}

func sampleDetail() model.GuestDetail {
	number := "101"
	capacity := 2

	return model.GuestDetail{
		Guest: model.Guest{
			ID:          "g1",
			TenantID:    tenant,
			Name:        "Alice",
			RoomID:      "r1",
			CheckInDate: timezone.Now(),
			Metadata:    gModel.Metadata{CreatedAt: timezone.Now(), ModifiedAt: timezone.Now()},
		},
		RoomNumber:   &number,
		RoomCapacity: &capacity,
	}
}

func TestGuestService_CheckIn(t *testing.T) {
	dbErr := failure.StorageUnavailable(errors.New("connection refused"))

	tests := []struct {
		name      string
		setupMock func(f *guestFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "successful check-in",
			setupMock: func(f *guestFixture) {
				f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, cmd occupancy.Command) (occupancy.Outcome, error) {
						assert.Equal(t, tenant, cmd.TenantID)
						assert.Equal(t, "r1", cmd.To)
						assert.Empty(t, cmd.From)

						return occupancy.Outcome{}, nil
					})
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().GetDetailTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(sampleDetail(), nil)
				f.cache.EXPECT().Clear(gomock.Any(), "room:"+tenant+":*").Return(nil)
			},
		},
		{
			name: "engine rejects",
			setupMock: func(f *guestFixture) {
				f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(occupancy.Outcome{}, failure.RoomFull("room is full"))
			},
			wantErr:  true,
			wantKind: failure.KindRoomFull,
		},
		{
			name: "insert fails",
			setupMock: func(f *guestFixture) {
				f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(occupancy.Outcome{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(dbErr)
			},
			wantErr:  true,
			wantKind: failure.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGuestFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CheckIn(tenantCtx(), dto.CheckInRequest{Name: "Alice", RoomID: "r1"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "101", res.RoomNumber)
			}
		})
	}
}

func TestGuestService_UpdateWithoutAllocationChange(t *testing.T) {
	f := newGuestFixture(t)
	current := sampleDetail().Guest

	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "Alicia", fields[model.FieldName])
			assert.NotContains(t, fields, model.FieldRoomID)

			return nil
		})
	f.repo.EXPECT().GetDetailTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(sampleDetail(), nil)
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)

	name := "Alicia"
	_, err := f.svc.Update(tenantCtx(), dto.UpdateGuestRequest{Name: &name}, "g1")
	assert.NoError(t, err)
}

func TestGuestService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *guestFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(f *guestFixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(sampleDetail(), nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f *guestFixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.GuestDetail{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f *guestFixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.GuestDetail{}, errors.New("database error"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGuestFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(tenantCtx(), "g1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "g1", res.ID)
			}
		})
	}
}

func TestGuestService_GetAll(t *testing.T) {
	f := newGuestFixture(t)

	f.repo.EXPECT().CountDetail(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.GuestDetail, error) {
			assert.Equal(t, "rooms.number", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)
			assert.Len(t, filter.Filters, 2)

			return []model.GuestDetail{sampleDetail()}, nil
		})

	active := false
	res, err := f.svc.GetAll(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 2, SortBy: "room_number"}, dto.GuestFilter{CheckedOut: &active})

	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Guests, 1)
}

func TestGuestService_Search(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f := newGuestFixture(t)

		_, err := f.svc.Search(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 10}, constant.Empty)
		assert.True(t, failure.Is(err, failure.KindInvalidInput))
	})

	t.Run("count fails", func(t *testing.T) {
		f := newGuestFixture(t)
		f.repo.EXPECT().CountDetail(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

		_, err := f.svc.Search(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 10}, "ali")
		assert.Error(t, err)
	})

	t.Run("matches", func(t *testing.T) {
		f := newGuestFixture(t)
		f.repo.EXPECT().CountDetail(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAllDetail(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.GuestDetail{sampleDetail()}, nil)

		res, err := f.svc.Search(tenantCtx(), gDto.QueryParams{Page: 1, Limit: 10}, "ali")
		assert.NoError(t, err)
		assert.Equal(t, "Alice", res.Guests[0].Name)
	})
}
