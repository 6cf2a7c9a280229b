package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPropulsion  = errors.New("unknown propulsion")
	ErrUnknownCarSize     = errors.New("unknown car size")
	ErrUnknownTransport   = errors.New("unknown transport")
	ErrUnknownTransitMode = errors.New("unknown transit mode")
)

// Location is a free text address understood by the directions provider
type Location string

func (l Location) String() string {
	return string(l)
}

// Propulsion fuel category of a car
type Propulsion string

const (
	PropulsionGas      Propulsion = "gas"
	PropulsionDiesel   Propulsion = "diesel"
	PropulsionElectric Propulsion = "electric"
)

// ParsePropulsion accepts either lower or capitalized names
func ParsePropulsion(s string) (Propulsion, error) {
	switch strings.ToLower(s) {
	case "gas":
		return PropulsionGas, nil
	case "diesel":
		return PropulsionDiesel, nil
	case "electric":
		return PropulsionElectric, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPropulsion, s)
}

// CarSize size class of a car
type CarSize string

const (
	CarSizeSmall  CarSize = "small"
	CarSizeMedium CarSize = "medium"
	CarSizeLarge  CarSize = "large"
)

// ParseCarSize parses a size, "big" is an alias of large
func ParseCarSize(s string) (CarSize, error) {
	switch strings.ToLower(s) {
	case "small":
		return CarSizeSmall, nil
	case "medium":
		return CarSizeMedium, nil
	case "large", "big":
		return CarSizeLarge, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCarSize, s)
}

// TransportKind the way a commute is done
type TransportKind string

const (
	TransportCar     TransportKind = "car"
	TransportCarPool TransportKind = "carpool"
	TransportCycle   TransportKind = "cycle"
	TransportTransit TransportKind = "transit"
	TransportWalk    TransportKind = "walk"
)

// TransportKinds every kind, in report order
var TransportKinds = []TransportKind{
	TransportCar,
	TransportCarPool,
	TransportCycle,
	TransportTransit,
	TransportWalk,
}

func ParseTransportKind(s string) (TransportKind, error) {
	for _, kind := range TransportKinds {
		if string(kind) == strings.ToLower(s) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransport, s)
}

// Title human readable name of a transport kind
func (k TransportKind) Title() string {
	switch k {
	case TransportCar:
		return "Driving"
	case TransportCarPool:
		return "Carpooling"
	case TransportCycle:
		return "Cycling"
	case TransportTransit:
		return "Public transport"
	case TransportWalk:
		return "Walking"
	}
	return string(k)
}

// TransitMode vehicle used on a public transport route
type TransitMode string

const (
	TransitBus    TransitMode = "bus"
	TransitSbahn  TransitMode = "sbahn"
	TransitSubway TransitMode = "subway"
	TransitTrain  TransitMode = "train"
	TransitTram   TransitMode = "tram"
)

// ParseVehicleType maps a directions vehicle type onto a transit mode.
// Vehicles without an emission factor (ferries, cable cars, ...) report ok == false.
func ParseVehicleType(vehicleType string) (TransitMode, bool) {
	switch vehicleType {
	case "BUS", "INTERCITY_BUS", "TROLLEYBUS":
		return TransitBus, true
	case "COMMUTER_TRAIN":
		return TransitSbahn, true
	case "SUBWAY":
		return TransitSubway, true
	case "HEAVY_RAIL", "HIGH_SPEED_TRAIN", "LONG_DISTANCE_TRAIN", "METRO_RAIL", "MONORAIL", "RAIL":
		return TransitTrain, true
	case "TRAM":
		return TransitTram, true
	}
	return "", false
}

// Transport full description of how a route is travelled
type Transport struct {
	Kind        TransportKind
	Propulsion  Propulsion
	Size        CarSize
	Stopover    Location
	TransitMode TransitMode
}

// IsCar reports whether the transport needs car attributes
func (t Transport) IsCar() bool {
	return t.Kind == TransportCar || t.Kind == TransportCarPool
}

// Mode travel mode understood by the directions provider
func (t Transport) Mode() string {
	switch t.Kind {
	case TransportCar, TransportCarPool:
		return "driving"
	case TransportCycle:
		return "bicycling"
	case TransportTransit:
		return "transit"
	case TransportWalk:
		return "walking"
	}
	return ""
}

// People number of people sharing the emissions
func (t Transport) People() int {
	if t.Kind == TransportCarPool {
		return 2
	}
	return 1
}
