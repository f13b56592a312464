package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission marks a route pattern as public when Skip is set. Path is the full chi
// route pattern, e.g. "/v1/rooms/{id}".
type Permission struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Skip   bool   `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	index     map[string]Permission
}

func key(path, method string) string {
	return strings.ToUpper(method) + " " + path
}

// Parse decodes a permissions table.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))
	for _, endpoint := range permissions.Endpoints {
		permissions.index[key(endpoint.Path, endpoint.Method)] = endpoint
	}

	return &permissions, nil
}

// FindPermissions returns the entry for the route, or the zero Permission, which
// requires a token.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r == nil {
		return Permission{}
	}

	return r.index[key(path, method)]
}

var embedded = sync.OnceValue(func() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		panic(err)
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("loaded embedded permissions")

	return permissions
})

// Get returns the permissions table compiled into the binary.
func Get() *PermissionData {
	return embedded()
}
