package schema

import "strings"

// RouteQuery what is asked from the directions provider
type RouteQuery struct {
	Origin      Location
	Destination Location
	Mode        string
	Stopover    Location
}

// Key cache key of a route query
func (q RouteQuery) Key() string {
	return strings.Join([]string{q.Mode, q.Origin.String(), q.Destination.String(), q.Stopover.String()}, "|")
}

// RouteQueryFromKey reverses Key, ok is false for malformed keys
func RouteQueryFromKey(key string) (RouteQuery, bool) {
	parts := strings.SplitN(key, "|", 4)
	if len(parts) != 4 {
		return RouteQuery{}, false
	}
	return RouteQuery{
		Mode:        parts[0],
		Origin:      Location(parts[1]),
		Destination: Location(parts[2]),
		Stopover:    Location(parts[3]),
	}, true
}

// Route measured route
type Route struct {
	Query RouteQuery
	// Distance in meters
	Distance int
	// Duration in seconds
	Duration int
	// TransitMode is set for transit routes only
	TransitMode TransitMode
}

// Estimate of a commute
type Estimate struct {
	Distance  int
	Duration  int
	Emissions int
}
