package directions_dto

// Request parameters of the directions api
type Request struct {
	Origin        string
	Destination   string
	Mode          string
	Waypoints     string
	DepartureTime string
}

// ResponseBody subset of the directions api response we need
type ResponseBody struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Routes       []Route `json:"routes"`
}

type Route struct {
	Legs []Leg `json:"legs"`
}

type Leg struct {
	Distance Entry  `json:"distance"`
	Duration Entry  `json:"duration"`
	Steps    []Step `json:"steps"`
}

// Entry value with its unit given by the field, meters or seconds
type Entry struct {
	Text  string `json:"text,omitempty"`
	Value int    `json:"value"`
}

type Step struct {
	TransitDetails *TransitDetails `json:"transit_details,omitempty"`
}

type TransitDetails struct {
	Line Line `json:"line"`
}

type Line struct {
	Vehicle Vehicle `json:"vehicle"`
}

type Vehicle struct {
	Type string `json:"type"`
}
