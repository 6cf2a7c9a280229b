package estimate_dto

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RouteQuery query of every estimate route
type RouteQuery struct {
	Origin      string `validate:"required"`
	Destination string `validate:"required"`
}

// CarQuery car attributes of /car and /carpool
type CarQuery struct {
	Propulsion string `validate:"required,oneof=gas diesel electric Gas Diesel Electric"`
	Size       string `validate:"required,oneof=small medium large big Small Medium Large Big"`
}

// CarPoolQuery extra stop of /carpool
type CarPoolQuery struct {
	Stopover string `validate:"required"`
}

func NewRouteQuery(values url.Values) RouteQuery {
	return RouteQuery{
		Origin:      values.Get("origin"),
		Destination: values.Get("destination"),
	}
}

func NewCarQuery(values url.Values) CarQuery {
	return CarQuery{
		Propulsion: values.Get("propulsion"),
		Size:       values.Get("size"),
	}
}

func NewCarPoolQuery(values url.Values) CarPoolQuery {
	return CarPoolQuery{
		Stopover: values.Get("stopover"),
	}
}

// Validate validation of a query
func (q RouteQuery) Validate() error {
	return validate.Struct(q)
}

// Validate validation of a query
func (q CarQuery) Validate() error {
	return validate.Struct(q)
}

// Validate validation of a query
func (q CarPoolQuery) Validate() error {
	return validate.Struct(q)
}

// ResponseBody estimate of a commute
type ResponseBody struct {
	Distance  int `json:"distance"`
	Duration  int `json:"duration"`
	Emissions int `json:"emissions"`
}

// ErrorBody error response
type ErrorBody struct {
	Error string `json:"error"`
}
