package occupancy

import (
	"slices"
	"strings"

	"lodging/internal/domains/room/model"
	"lodging/shared/constant"
	"lodging/shared/failure"
)

// Mode is the occupancy mode a room is in. A room is either empty, booked bed by bed,
// or leased whole by a single agent.
type Mode string

const (
	ModeEmpty       Mode = "empty"
	ModeDirect      Mode = "direct"
	ModeAgentLeased Mode = "agent_leased"
)

// State is the occupancy of a room. Count is meaningful only for ModeDirect,
// AgentID only for ModeAgentLeased.
type State struct {
	Mode    Mode   `json:"mode"`
	Count   int    `json:"count,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
}

func Empty() State {
	return State{Mode: ModeEmpty}
}

func Direct(count int) State {
	if count == 0 {
		return Empty()
	}

	return State{Mode: ModeDirect, Count: count}
}

func AgentLeased(agentID string) State {
	return State{Mode: ModeAgentLeased, AgentID: agentID}
}

// Occupied returns the bed count the state accounts for in a room of the given capacity.
func (s State) Occupied(capacity int) int {
	switch s.Mode {
	case ModeAgentLeased:
		return capacity
	case ModeDirect:
		return s.Count
	default:
		return 0
	}
}

// Apply writes the state onto the room's stored occupancy fields.
func (s State) Apply(room model.Room) model.Room {
	room.OccupiedBeds = s.Occupied(room.Capacity)
	room.AssignedAgentID = nil

	if s.Mode == ModeAgentLeased {
		agentID := s.AgentID
		room.AssignedAgentID = &agentID
	}

	return room
}

// StateOf reads the state back from a stored room.
func StateOf(room model.Room) State {
	if agentID := room.AgentID(); agentID != "" {
		return AgentLeased(agentID)
	}

	return Direct(room.OccupiedBeds)
}

// Claim is one active guest's hold on a room. An empty AgentID is a direct booking.
type Claim struct {
	GuestID string
	AgentID string
}

// NormalizeAgentID maps every spelling of "no agent" to the empty string.
func NormalizeAgentID(agentID string) string {
	agentID = strings.TrimSpace(agentID)
	if strings.EqualFold(agentID, constant.Null) {
		return constant.Empty
	}

	return agentID
}

type summary struct {
	agents []string
	direct int
}

func summarize(claims []Claim) summary {
	var sum summary

	for _, claim := range claims {
		agentID := NormalizeAgentID(claim.AgentID)
		if agentID == "" {
			sum.direct++

			continue
		}

		if !slices.Contains(sum.agents, agentID) {
			sum.agents = append(sum.agents, agentID)
		}
	}

	return sum
}

// Reconcile derives a room's state from the full set of active claims on it.
func Reconcile(capacity int, claims []Claim) (State, error) {
	sum := summarize(claims)

	switch {
	case len(sum.agents) > 1:
		return State{}, failure.AgentConflict("room is claimed by more than one agent") // nolint:wrapcheck
	case len(sum.agents) == 1 && sum.direct > 0:
		return State{}, failure.RoomAssignedToAgent("room is assigned to an agent and has direct guests") // nolint:wrapcheck
	case len(sum.agents) == 1:
		return AgentLeased(sum.agents[0]), nil
	case sum.direct > capacity:
		return State{}, failure.RoomFull("room is full") // nolint:wrapcheck
	default:
		return Direct(sum.direct), nil
	}
}

// Admit checks whether guest may join a room already holding others. It does not check
// that the room or the agent exist.
func Admit(capacity int, others []Claim, guest Claim) error {
	sum := summarize(others)
	agentID := NormalizeAgentID(guest.AgentID)

	if agentID != "" {
		for _, existing := range sum.agents {
			if existing != agentID {
				return failure.RoomAssignedElsewhere("room is assigned to another agent") // nolint:wrapcheck
			}
		}

		if sum.direct > 0 {
			return failure.RoomAssignedElsewhere("room has direct guests") // nolint:wrapcheck
		}

		if len(sum.agents) > 0 {
			return failure.DuplicateAssignment("agent is already assigned to this room") // nolint:wrapcheck
		}

		return nil
	}

	if len(sum.agents) > 0 {
		return failure.RoomAssignedToAgent("room is assigned to an agent") // nolint:wrapcheck
	}

	if sum.direct >= capacity {
		return failure.RoomFull("room is full") // nolint:wrapcheck
	}

	return nil
}
