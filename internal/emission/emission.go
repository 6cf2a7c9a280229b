package emission

import (
	"errors"
	"fmt"

	"greencommute/internal/schema"
)

var ErrMissingTransitMode = errors.New("transit mode needs to be set to calculate CO2")

// g CO2 eq per km, indexed by propulsion and car size
var carFactors = map[schema.Propulsion]map[schema.CarSize]int{
	schema.PropulsionDiesel: {
		schema.CarSizeSmall:  240,
		schema.CarSizeMedium: 310,
		schema.CarSizeLarge:  390,
	},
	schema.PropulsionElectric: {
		schema.CarSizeSmall:  160,
		schema.CarSizeMedium: 200,
		schema.CarSizeLarge:  240,
	},
	schema.PropulsionGas: {
		schema.CarSizeSmall:  280,
		schema.CarSizeMedium: 340,
		schema.CarSizeLarge:  410,
	},
}

var transitFactors = map[schema.TransitMode]int{
	schema.TransitBus:    108,
	schema.TransitTrain:  93,
	schema.TransitSbahn:  80,
	schema.TransitSubway: 80,
	schema.TransitTram:   80,
}

// Factor returns the emission factor of a transport in g CO2 eq per km
func Factor(transport schema.Transport) (int, error) {
	switch transport.Kind {
	case schema.TransportCar, schema.TransportCarPool:
		factor, ok := carFactors[transport.Propulsion][transport.Size]
		if !ok {
			return 0, fmt.Errorf("no factor for %s %s car", transport.Size, transport.Propulsion)
		}
		return factor, nil
	case schema.TransportCycle, schema.TransportWalk:
		return 0, nil
	case schema.TransportTransit:
		if transport.TransitMode == "" {
			return 0, ErrMissingTransitMode
		}
		factor, ok := transitFactors[transport.TransitMode]
		if !ok {
			return 0, fmt.Errorf("%w: %q", schema.ErrUnknownTransitMode, transport.TransitMode)
		}
		return factor, nil
	}
	return 0, fmt.Errorf("%w: %q", schema.ErrUnknownTransport, transport.Kind)
}

// Calculate returns the emissions in gram of CO2 per person for a distance in meters
func Calculate(distance int, transport schema.Transport) (int, error) {
	factor, err := Factor(transport)
	if err != nil {
		return 0, err
	}
	return distance * factor / 1000 / transport.People(), nil
}

// Savings percentage of emissions saved by candidate compared to baseline
func Savings(candidate, baseline int) float64 {
	if baseline == 0 {
		return 0
	}
	return 100 - float64(candidate)/float64(baseline)*100
}
