package occupancy_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"lodging/internal/domains/occupancy"
	"lodging/internal/domains/room/model"
	"lodging/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func direct(ids ...string) []occupancy.Claim {
	claims := make([]occupancy.Claim, len(ids))
	for i, id := range ids {
		claims[i] = occupancy.Claim{GuestID: id}
	}

	return claims
}

func leased(agentID string, ids ...string) []occupancy.Claim {
	claims := make([]occupancy.Claim, len(ids))
	for i, id := range ids {
		claims[i] = occupancy.Claim{GuestID: id, AgentID: agentID}
	}

	return claims
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		claims   []occupancy.Claim
		want     occupancy.State
		wantKind failure.Kind
	}{
		{
			name:     "no claims is empty",
			capacity: 2,
			want:     occupancy.Empty(),
		},
		{
			name:     "direct guests are counted",
			capacity: 3,
			claims:   direct("g1", "g2"),
			want:     occupancy.Direct(2),
		},
		{
			name:     "direct guests at capacity",
			capacity: 2,
			claims:   direct("g1", "g2"),
			want:     occupancy.Direct(2),
		},
		{
			name:     "direct guests over capacity",
			capacity: 1,
			claims:   direct("g1", "g2"),
			wantKind: failure.KindRoomFull,
		},
		{
			name:     "one agent leases the room",
			capacity: 4,
			claims:   leased("a1", "g1", "g2"),
			want:     occupancy.AgentLeased("a1"),
		},
		{
			name:     "null agent is direct",
			capacity: 2,
			claims:   []occupancy.Claim{{GuestID: "g1", AgentID: "null"}, {GuestID: "g2", AgentID: " "}},
			want:     occupancy.Direct(2),
		},
		{
			name:     "two agents conflict",
			capacity: 2,
			claims:   append(leased("a1", "g1"), leased("a2", "g2")...),
			wantKind: failure.KindAgentConflict,
		},
		{
			name:     "agent mixed with direct guests",
			capacity: 2,
			claims:   append(leased("a1", "g1"), direct("g2")...),
			wantKind: failure.KindRoomAssignedToAgent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := occupancy.Reconcile(tt.capacity, tt.claims)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	claims := direct("g1", "g2")

	first, err := occupancy.Reconcile(3, claims)
	require.NoError(t, err)

	second, err := occupancy.Reconcile(3, claims)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	room := first.Apply(model.Room{ID: "r1", Capacity: 3})
	assert.Equal(t, room, first.Apply(room))
	assert.Equal(t, first, occupancy.StateOf(room))
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		others   []occupancy.Claim
		guest    occupancy.Claim
		wantKind failure.Kind
	}{
		{
			name:     "direct into empty room",
			capacity: 1,
			guest:    occupancy.Claim{GuestID: "g1"},
		},
		{
			name:     "direct into full room",
			capacity: 2,
			others:   direct("g1", "g2"),
			guest:    occupancy.Claim{GuestID: "g3"},
			wantKind: failure.KindRoomFull,
		},
		{
			name:     "direct into leased room",
			capacity: 3,
			others:   leased("a1", "g1"),
			guest:    occupancy.Claim{GuestID: "g2"},
			wantKind: failure.KindRoomAssignedToAgent,
		},
		{
			name:     "agent into empty room",
			capacity: 3,
			guest:    occupancy.Claim{GuestID: "g1", AgentID: "a1"},
		},
		{
			name:     "agent into room leased by another agent",
			capacity: 3,
			others:   leased("a2", "g1"),
			guest:    occupancy.Claim{GuestID: "g2", AgentID: "a1"},
			wantKind: failure.KindRoomAssignedElsewhere,
		},
		{
			name:     "agent into room with direct guests",
			capacity: 3,
			others:   direct("g1"),
			guest:    occupancy.Claim{GuestID: "g2", AgentID: "a1"},
			wantKind: failure.KindRoomAssignedElsewhere,
		},
		{
			name:     "same agent twice",
			capacity: 3,
			others:   leased("a1", "g1"),
			guest:    occupancy.Claim{GuestID: "g2", AgentID: "a1"},
			wantKind: failure.KindDuplicateAssignment,
		},
		{
			name:     "empty agent string is direct",
			capacity: 1,
			others:   leased("a1", "g1"),
			guest:    occupancy.Claim{GuestID: "g2", AgentID: ""},
			wantKind: failure.KindRoomAssignedToAgent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := occupancy.Admit(tt.capacity, tt.others, tt.guest)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAdmitRelease_Symmetry(t *testing.T) {
	cases := []struct {
		name   string
		others []occupancy.Claim
		guest  occupancy.Claim
	}{
		{name: "direct", others: direct("g1"), guest: occupancy.Claim{GuestID: "g2"}},
		{name: "agent into empty", guest: occupancy.Claim{GuestID: "g1", AgentID: "a1"}},
		{name: "direct into empty", guest: occupancy.Claim{GuestID: "g1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before, err := occupancy.Reconcile(3, tc.others)
			require.NoError(t, err)

			require.NoError(t, occupancy.Admit(3, tc.others, tc.guest))

			admitted, err := occupancy.Reconcile(3, append(append([]occupancy.Claim{}, tc.others...), tc.guest))
			require.NoError(t, err)
			assert.NotEqual(t, before, admitted)

			after, err := occupancy.Reconcile(3, tc.others)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestNormalizeAgentID(t *testing.T) {
	assert.Equal(t, "", occupancy.NormalizeAgentID(""))
	assert.Equal(t, "", occupancy.NormalizeAgentID("null"))
	assert.Equal(t, "", occupancy.NormalizeAgentID("NULL"))
	assert.Equal(t, "", occupancy.NormalizeAgentID("   "))
	assert.Equal(t, "a1", occupancy.NormalizeAgentID(" a1 "))
}

func TestState_Apply(t *testing.T) {
	room := model.Room{ID: "r1", Capacity: 3, OccupiedBeds: 1}

	leasedRoom := occupancy.AgentLeased("a1").Apply(room)
	assert.Equal(t, 3, leasedRoom.OccupiedBeds)
	assert.Equal(t, "a1", leasedRoom.AgentID())

	emptied := occupancy.Empty().Apply(leasedRoom)
	assert.Equal(t, 0, emptied.OccupiedBeds)
	assert.Nil(t, emptied.AssignedAgentID)

	leasedRoom.Capacity = 5
	assert.Equal(t, 5, occupancy.StateOf(leasedRoom).Apply(leasedRoom).OccupiedBeds)
}

// TestInvariants walks random admit and release sequences over a few rooms and checks the
// stored fields after every accepted step.
func TestInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11)) //nolint:gosec

	type roomState struct {
		room   model.Room
		claims []occupancy.Claim
	}

	rooms := []*roomState{
		{room: model.Room{ID: "r1", Capacity: 1}},
		{room: model.Room{ID: "r2", Capacity: 2}},
		{room: model.Room{ID: "r3", Capacity: 3}},
	}
	agents := []string{"", "", "a1", "a2"}

	for step := range 2000 {
		target := rooms[rng.IntN(len(rooms))]

		if len(target.claims) > 0 && rng.IntN(3) == 0 {
			idx := rng.IntN(len(target.claims))
			target.claims = append(target.claims[:idx:idx], target.claims[idx+1:]...)
		} else {
			guest := occupancy.Claim{GuestID: fmt.Sprintf("g%d", step), AgentID: agents[rng.IntN(len(agents))]}
			if err := occupancy.Admit(target.room.Capacity, target.claims, guest); err != nil {
				continue
			}

			target.claims = append(target.claims, guest)
		}

		state, err := occupancy.Reconcile(target.room.Capacity, target.claims)
		require.NoError(t, err)

		target.room = state.Apply(target.room)

		for _, rs := range rooms {
			room := rs.room
			assert.LessOrEqual(t, room.OccupiedBeds, room.Capacity)

			if room.AssignedAgentID != nil {
				assert.Equal(t, room.Capacity, room.OccupiedBeds)
			}

			directCount, agentCount := 0, 0
			for _, claim := range rs.claims {
				if claim.AgentID == "" {
					directCount++
				} else {
					agentCount++
				}
			}

			if room.AssignedAgentID == nil {
				assert.Equal(t, directCount, room.OccupiedBeds)
			}

			assert.False(t, directCount > 0 && agentCount > 0, "room %s mixes agent and direct guests", room.ID)
		}
	}
}
