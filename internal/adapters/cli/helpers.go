package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// requestType returns the reflect type used as a mediator registration key
func requestType(request common.Request) reflect.Type {
	return reflect.TypeOf(request)
}

// parseHaveFlags parses repeated --have flags of the form "<entity-key>=<qty>"
// into an item override map. Only item keys are accepted: cargo and
// buildings have no manual override mechanism.
func parseHaveFlags(raw []string) (materials.HaveMap, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	overrides := make(materials.HaveMap, len(raw))
	for _, pair := range raw {
		idx := strings.LastIndex(pair, "=")
		if idx <= 0 || idx == len(pair)-1 {
			return nil, fmt.Errorf("invalid --have %q: expected <entity-key>=<quantity>", pair)
		}

		key := catalog.EntityKey(pair[:idx])
		kind, entityID, err := key.Parse()
		if err != nil {
			return nil, fmt.Errorf("invalid --have %q: %w", pair, err)
		}
		if kind != catalog.KindItem {
			return nil, fmt.Errorf("invalid --have %q: only item keys can be overridden", pair)
		}

		quantity, err := strconv.ParseInt(pair[idx+1:], 10, 64)
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("invalid --have %q: quantity must be a non-negative integer", pair)
		}
		overrides[entityID] = quantity
	}
	return overrides, nil
}

// parseCheckFlags parses repeated --check flags into a checked-off set
func parseCheckFlags(raw []string) (materials.CheckedOffSet, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	keys := make([]catalog.EntityKey, 0, len(raw))
	for _, rawKey := range raw {
		key := catalog.EntityKey(rawKey)
		if _, _, err := key.Parse(); err != nil {
			return nil, fmt.Errorf("invalid --check %q: %w", rawKey, err)
		}
		keys = append(keys, key)
	}
	return materials.NewCheckedOffSet(keys...), nil
}

// parseEntityKind parses a --kind flag value
func parseEntityKind(raw string) (catalog.EntityKind, error) {
	kind, err := catalog.ParseEntityKind(raw)
	if err != nil {
		return "", fmt.Errorf("invalid --kind %q: expected item, cargo or building", raw)
	}
	return kind, nil
}

// tierLabel renders a tier for display
func tierLabel(tier int) string {
	if tier == catalog.TierUntiered {
		return "-"
	}
	return strconv.Itoa(tier)
}
