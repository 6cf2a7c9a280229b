package schema

// CommuteQuery what the commute form asks the estimate service
type CommuteQuery struct {
	Origin      Location
	Destination Location
	Propulsion  Propulsion
	Size        CarSize
	// Stopover is only sent for carpool estimates
	Stopover Location
}

// EstimateResult estimate as received from the estimate service.
// Emissions in grams, Duration in seconds, Distance in meters.
type EstimateResult struct {
	Distance  float64 `json:"distance"`
	Duration  float64 `json:"duration"`
	Emissions float64 `json:"emissions"`
}
