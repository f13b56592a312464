package occupancy

//go:generate go run go.uber.org/mock/mockgen -source=./engine.go -destination=./mocks/engine_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"

	"lodging/infras/otel"
	"lodging/internal/domains/room/model"
	"lodging/shared/constant"
	"lodging/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrGuestID = "guest_id"
	otelAttrFrom    = "from_room_id"
	otelAttrTo      = "to_room_id"
	otelAttrAgentID = "agent_id"
)

// Rooms locks and writes rooms inside the caller's transaction.
type Rooms interface {
	// LockTx returns the tenant's rooms among ids, locked FOR UPDATE in ascending id order.
	LockTx(ctx context.Context, tx *sqlx.Tx, tenantID string, ids ...string) ([]model.Room, error)
	UpdateOccupancyTx(ctx context.Context, tx *sqlx.Tx, room model.Room) error
}

// Agents holds a share lock on an agent row for the rest of the transaction.
type Agents interface {
	HoldTx(ctx context.Context, tx *sqlx.Tx, tenantID, agentID string) (bool, error)
}

// Ledger reads the active guests of a room.
type Ledger interface {
	ActiveClaimsTx(ctx context.Context, tx *sqlx.Tx, tenantID, roomID, excludeGuestID string) ([]Claim, error)
}

// Command moves one guest's claim. From is the room the guest leaves and To the room it
// enters; either may be empty. From == To re-admits the guest in place, e.g. on an agent change.
type Command struct {
	TenantID string
	GuestID  string
	AgentID  string
	From     string
	To       string
}

// Outcome carries the rooms as written. A room the command did not name is zero.
type Outcome struct {
	From model.Room
	To   model.Room
}

type Engine interface {
	Apply(ctx context.Context, tx *sqlx.Tx, cmd Command) (Outcome, error)
	Recompute(ctx context.Context, tx *sqlx.Tx, room model.Room) (model.Room, error)
	Reconcile(ctx context.Context, tx *sqlx.Tx, room model.Room) (model.Room, bool, error)
}

type engineImpl struct {
	rooms  Rooms
	agents Agents
	ledger Ledger
	otel   otel.Otel
}

func New(rooms Rooms, agents Agents, ledger Ledger, otel otel.Otel) Engine {
	return &engineImpl{
		rooms:  rooms,
		agents: agents,
		ledger: ledger,
		otel:   otel,
	}
}

func (e *engineImpl) Apply(ctx context.Context, tx *sqlx.Tx, cmd Command) (out Outcome, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".Apply")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cmd.AgentID = NormalizeAgentID(cmd.AgentID)

	scope.SetAttributes(map[string]any{
		otelAttrGuestID: cmd.GuestID,
		otelAttrFrom:    cmd.From,
		otelAttrTo:      cmd.To,
		otelAttrAgentID: cmd.AgentID,
	})

	ids := lockOrder(cmd.From, cmd.To)
	if len(ids) == 0 {
		return out, nil
	}

	rooms, err := e.rooms.LockTx(ctx, tx, cmd.TenantID, ids...)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock rooms")

		return out, fmt.Errorf("failed to lock rooms: %w", err)
	}

	locked := make(map[string]model.Room, len(rooms))
	for _, room := range rooms {
		locked[room.ID] = room
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return out, failure.NotFound("room not found") // nolint:wrapcheck
		}
	}

	written := map[string]model.Room{}

	if cmd.From != "" && cmd.From != cmd.To {
		released, err := e.release(ctx, tx, cmd, locked[cmd.From])
		if err != nil {
			return out, err
		}

		written[cmd.From] = released
	}

	if cmd.To != "" {
		admitted, err := e.admit(ctx, tx, cmd, locked[cmd.To])
		if err != nil {
			return out, err
		}

		written[cmd.To] = admitted
	}

	for _, id := range ids {
		room, ok := written[id]
		if !ok || !changed(locked[id], room) {
			continue
		}

		if err = e.rooms.UpdateOccupancyTx(ctx, tx, room); err != nil {
			log.Error().Err(err).Str("room_id", id).Msg("failed to update room occupancy")

			return out, fmt.Errorf("failed to update room occupancy: %w", err)
		}
	}

	out.From = written[cmd.From]
	out.To = written[cmd.To]

	return out, nil
}

// release drops the guest's claim from room and reconciles the remaining set.
func (e *engineImpl) release(ctx context.Context, tx *sqlx.Tx, cmd Command, room model.Room) (model.Room, error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".release")
	defer scope.End()

	remaining, err := e.ledger.ActiveClaimsTx(ctx, tx, cmd.TenantID, room.ID, cmd.GuestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active claims")

		return room, fmt.Errorf("failed to get active claims: %w", err)
	}

	state, err := Reconcile(room.Capacity, remaining)
	if err != nil {
		scope.TraceError(err)

		return room, err
	}

	return state.Apply(room), nil
}

// admit places the guest's claim into room after the admission checks pass.
func (e *engineImpl) admit(ctx context.Context, tx *sqlx.Tx, cmd Command, room model.Room) (model.Room, error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".admit")
	defer scope.End()

	if cmd.AgentID != "" {
		exist, err := e.agents.HoldTx(ctx, tx, cmd.TenantID, cmd.AgentID)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to check agent")

			return room, fmt.Errorf("failed to check agent: %w", err)
		}

		if !exist {
			return room, failure.NotFound("agent not found") // nolint:wrapcheck
		}
	}

	others, err := e.ledger.ActiveClaimsTx(ctx, tx, cmd.TenantID, room.ID, cmd.GuestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active claims")

		return room, fmt.Errorf("failed to get active claims: %w", err)
	}

	claim := Claim{GuestID: cmd.GuestID, AgentID: cmd.AgentID}

	if err = Admit(room.Capacity, others, claim); err != nil {
		scope.TraceError(err)

		return room, err
	}

	state, err := Reconcile(room.Capacity, append(others, claim))
	if err != nil {
		scope.TraceError(err)

		return room, err
	}

	return state.Apply(room), nil
}

// Recompute derives room's occupancy from the ledger without writing it. The room's capacity
// is taken as given, so a pending capacity change can be checked before it is stored.
func (e *engineImpl) Recompute(ctx context.Context, tx *sqlx.Tx, room model.Room) (res model.Room, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".Recompute")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims, err := e.ledger.ActiveClaimsTx(ctx, tx, room.TenantID, room.ID, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active claims")

		return room, fmt.Errorf("failed to get active claims: %w", err)
	}

	state, err := Reconcile(room.Capacity, claims)
	if err != nil {
		return room, err
	}

	return state.Apply(room), nil
}

// Reconcile recomputes room and stores the result when it differs from what is stored.
func (e *engineImpl) Reconcile(ctx context.Context, tx *sqlx.Tx, room model.Room) (res model.Room, updated bool, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".Reconcile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = e.Recompute(ctx, tx, room)
	if err != nil {
		return room, false, err
	}

	if !changed(room, res) {
		return res, false, nil
	}

	if err = e.rooms.UpdateOccupancyTx(ctx, tx, res); err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to update room occupancy")

		return room, false, fmt.Errorf("failed to update room occupancy: %w", err)
	}

	return res, true, nil
}

func lockOrder(ids ...string) []string {
	res := make([]string, 0, len(ids))

	for _, id := range ids {
		if id != "" && !slices.Contains(res, id) {
			res = append(res, id)
		}
	}

	slices.Sort(res)

	return res
}

func changed(before, after model.Room) bool {
	return before.OccupiedBeds != after.OccupiedBeds || before.AgentID() != after.AgentID()
}
