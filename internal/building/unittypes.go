package building

import (
	"strings"
)

type roomCounts struct {
	bedrooms  int
	bathrooms int
	label     string
}

var knownTypes = map[string]roomCounts{
	"STUDIO":    {0, 1, "Studio"},
	"1BR":       {1, 1, "1 Bedroom"},
	"2BR":       {2, 2, "2 Bedroom"},
	"3BR":       {3, 2, "3 Bedroom"},
	"4BR":       {4, 3, "4 Bedroom"},
	"PENTHOUSE": {4, 3, "Penthouse"},
}

func lookupType(unitType string) (roomCounts, bool) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(unitType), " ", ""))
	rc, ok := knownTypes[key]
	return rc, ok
}

// Rooms returns bedrooms and bathrooms for a unit type. Unknown types are
// treated as one bedroom, one bathroom.
func Rooms(unitType string) (bedrooms, bathrooms int) {
	if rc, ok := lookupType(unitType); ok {
		return rc.bedrooms, rc.bathrooms
	}
	return 1, 1
}

// Label is the human name of a unit type, the raw type when unknown.
func Label(unitType string) string {
	if rc, ok := lookupType(unitType); ok {
		return rc.label
	}
	return strings.TrimSpace(unitType)
}
