package shared

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"lodging/shared/cache"
	"lodging/shared/constant"
	"lodging/shared/dto"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// ConvertStringToBool parses an optional boolean query parameter. Empty and
// unparseable values yield nil so the filter is skipped.
func ConvertStringToBool(value string) *bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Msg("ignoring malformed boolean parameter")

		return nil
	}

	return &parsed
}

// CalculateTotalPage is the number of pages of limit rows needed for total
// rows, never less than one.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterByTenant scopes a lookup by id to the owning tenant.
func FilterByTenant(tenantID, fieldTenant, id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
			dto.Filter{
				Field:    fieldTenant,
				Value:    tenantID,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// WithTenant prepends a tenant predicate to filter.
func WithTenant(filter dto.FilterGroup, tenantID, fieldTenant, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    fieldTenant,
				Value:    tenantID,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
			filter,
		},
	}
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key from the paging params and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup, parts ...string) string {
	where, args := filter.GetWhereClause()

	raw, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Where  string          `json:"where"`
		Args   map[string]any  `json:"args"`
	}{params, where, args})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal cache key")
	}

	sum := sha1.Sum(raw) //nolint:gosec

	return BuildCacheKey(prefix, append(parts, hex.EncodeToString(sum[:]))...)
}

// InvalidateCaches clears every key under prefix. Failures are logged, not returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
