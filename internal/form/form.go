package form

import (
	"sync"

	"greencommute/internal/schema"
)

// Form state of the commute form for one session.
// Setters write a single field; the last Complete call wins.
type Form struct {
	mu sync.RWMutex

	origin      schema.Location
	destination schema.Location
	fuelType    schema.Propulsion
	carSize     schema.CarSize

	result   schema.EstimateResult
	complete bool
}

func New() *Form {
	return &Form{
		fuelType: schema.PropulsionGas,
		carSize:  schema.CarSizeMedium,
	}
}

func (f *Form) SetOrigin(origin schema.Location) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.origin = origin
}

func (f *Form) SetDestination(destination schema.Location) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destination = destination
}

func (f *Form) SetFuelType(fuelType schema.Propulsion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fuelType = fuelType
}

func (f *Form) SetCarSize(carSize schema.CarSize) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carSize = carSize
}

// Query snapshot of the input fields
func (f *Form) Query() schema.CommuteQuery {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return schema.CommuteQuery{
		Origin:      f.origin,
		Destination: f.destination,
		Propulsion:  f.fuelType,
		Size:        f.carSize,
	}
}

// Complete stores the result and marks the request as completed
func (f *Form) Complete(result schema.EstimateResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
	f.complete = true
}

// Result the last stored result, ok is false until a request completed
func (f *Form) Result() (schema.EstimateResult, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.result, f.complete
}
