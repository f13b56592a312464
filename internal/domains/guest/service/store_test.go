package service_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	agentModel "lodging/internal/domains/agent/model"
	"lodging/internal/domains/guest/model"
	"lodging/internal/domains/guest/repository"
	"lodging/internal/domains/occupancy"
	roomModel "lodging/internal/domains/room/model"
	gDto "lodging/shared/dto"
	gRepo "lodging/shared/repository"

	"github.com/jmoiron/sqlx"
)

// memStore is an in-memory stand-in for the guest, room and agent tables. Row locks are real
// mutexes held until the surrounding Transaction returns, and writes become visible on commit.
type memStore struct {
	repository.Guest

	mu     sync.Mutex
	rooms  map[string]roomModel.Room
	agents map[string]agentModel.Agent
	guests map[string]model.Guest
	locks  map[string]*sync.Mutex
}

type txKey struct{}

type memTx struct {
	held   []*sync.Mutex
	keys   map[string]bool
	rooms  map[string]roomModel.Room
	guests map[string]model.Guest
}

func newMemStore() *memStore {
	return &memStore{
		rooms:  map[string]roomModel.Room{},
		agents: map[string]agentModel.Agent{},
		guests: map[string]model.Guest{},
		locks:  map[string]*sync.Mutex{},
	}
}

func (s *memStore) addRoom(tenantID, id, number string, capacity int) {
	s.rooms[id] = roomModel.Room{ID: id, TenantID: tenantID, Number: number, Capacity: capacity}
}

func (s *memStore) addAgent(tenantID, id, name string) {
	s.agents[id] = agentModel.Agent{ID: id, TenantID: tenantID, Name: name}
}

func (s *memStore) room(id string) roomModel.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rooms[id]
}

func (s *memStore) activeGuests(roomID string) []model.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []model.Guest{}
	for _, guest := range s.guests {
		if guest.RoomID == roomID && !guest.CheckedOut {
			res = append(res, guest)
		}
	}

	return res
}

func (s *memStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx := &memTx{
		keys:   map[string]bool{},
		rooms:  map[string]roomModel.Room{},
		guests: map[string]model.Guest{},
	}

	defer func() {
		for i := len(tx.held) - 1; i >= 0; i-- {
			tx.held[i].Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx), nil); err != nil {
		return err
	}

	s.mu.Lock()
	maps.Copy(s.rooms, tx.rooms)
	maps.Copy(s.guests, tx.guests)
	s.mu.Unlock()

	return nil
}

func (s *memStore) lock(tx *memTx, key string) {
	if tx.keys[key] {
		return
	}

	s.mu.Lock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	s.mu.Unlock()

	mu.Lock()
	tx.held = append(tx.held, mu)
	tx.keys[key] = true
}

func txOf(ctx context.Context) *memTx {
	tx, _ := ctx.Value(txKey{}).(*memTx)

	return tx
}

func (s *memStore) readRoom(tx *memTx, id string) (roomModel.Room, bool) {
	if room, ok := tx.rooms[id]; ok {
		return room, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]

	return room, ok
}

func (s *memStore) readGuest(tx *memTx, id string) (model.Guest, bool) {
	if guest, ok := tx.guests[id]; ok {
		return guest, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	guest, ok := s.guests[id]

	return guest, ok
}

func filterValue(filter gDto.FilterGroup, field string) string {
	for _, f := range filter.Filters {
		switch f := f.(type) {
		case gDto.Filter:
			if value, ok := f.Value.(string); ok && f.Field == field {
				return value
			}
		case gDto.FilterGroup:
			if value := filterValue(f, field); value != "" {
				return value
			}
		}
	}

	return ""
}

func (s *memStore) LockTx(ctx context.Context, _ *sqlx.Tx, tenantID string, ids ...string) ([]roomModel.Room, error) {
	tx := txOf(ctx)
	res := []roomModel.Room{}

	for _, id := range slices.Sorted(slices.Values(ids)) {
		s.lock(tx, "room:"+id)

		if room, ok := s.readRoom(tx, id); ok && room.TenantID == tenantID {
			res = append(res, room)
		}
	}

	return res, nil
}

func (s *memStore) UpdateOccupancyTx(ctx context.Context, _ *sqlx.Tx, room roomModel.Room) error {
	txOf(ctx).rooms[room.ID] = room

	return nil
}

func (s *memStore) HoldTx(_ context.Context, _ *sqlx.Tx, tenantID, agentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[agentID]

	return ok && agent.TenantID == tenantID, nil
}

func (s *memStore) ActiveClaimsTx(ctx context.Context, _ *sqlx.Tx, tenantID, roomID, excludeGuestID string) ([]occupancy.Claim, error) {
	tx := txOf(ctx)

	s.mu.Lock()
	merged := maps.Clone(s.guests)
	s.mu.Unlock()

	maps.Copy(merged, tx.guests)

	res := []occupancy.Claim{}
	for _, id := range slices.Sorted(maps.Keys(merged)) {
		guest := merged[id]
		if guest.TenantID != tenantID || guest.RoomID != roomID || guest.CheckedOut || guest.ID == excludeGuestID {
			continue
		}

		res = append(res, occupancy.Claim{GuestID: guest.ID, AgentID: guest.Agent()})
	}

	return res, nil
}

func (s *memStore) InsertTx(ctx context.Context, _ *sqlx.Tx, guest model.Guest) error {
	txOf(ctx).guests[guest.ID] = guest

	return nil
}

func (s *memStore) GetTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, lock gRepo.LockMode, _ ...string) (model.Guest, error) {
	tx := txOf(ctx)
	id := filterValue(filter, model.FieldID)

	if lock == gRepo.LockForUpdate {
		s.lock(tx, "guest:"+id)
	}

	guest, ok := s.readGuest(tx, id)
	if !ok || guest.TenantID != filterValue(filter, model.FieldTenantID) {
		return model.Guest{}, nil
	}

	return guest, nil
}

func (s *memStore) UpdateTx(ctx context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
	tx := txOf(ctx)

	guest, ok := s.readGuest(tx, filterValue(filter, model.FieldID))
	if !ok {
		return nil
	}

	for key, value := range fields {
		switch key {
		case model.FieldName:
			guest.Name, _ = value.(string)
		case model.FieldRoomID:
			guest.RoomID, _ = value.(string)
		case model.FieldAgentID:
			guest.AgentID, _ = value.(*string)
		case model.FieldCheckInDate:
			guest.CheckInDate, _ = value.(time.Time)
		case model.FieldExpectedCheckOutDate:
			guest.ExpectedCheckOutDate, _ = value.(*time.Time)
		case model.FieldCheckedOut:
			guest.CheckedOut, _ = value.(bool)
		case model.FieldCheckedOutDate:
			if date, ok := value.(time.Time); ok {
				guest.CheckedOutDate = &date
			}
		}
	}

	tx.guests[guest.ID] = guest

	return nil
}

func (s *memStore) GetDetailTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (model.GuestDetail, error) {
	tx := txOf(ctx)

	guest, ok := s.readGuest(tx, filterValue(filter, model.FieldID))
	if !ok {
		return model.GuestDetail{}, nil
	}

	detail := model.GuestDetail{Guest: guest}

	if room, ok := s.readRoom(tx, guest.RoomID); ok {
		detail.RoomNumber = &room.Number
		detail.RoomCapacity = &room.Capacity
	}

	s.mu.Lock()
	if agent, ok := s.agents[guest.Agent()]; ok {
		detail.AgentName = &agent.Name
	}
	s.mu.Unlock()

	return detail, nil
}
