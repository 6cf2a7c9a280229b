package form

import (
	"sync"
	"testing"

	"greencommute/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	f := New()

	assert.Equal(t, schema.CommuteQuery{
		Propulsion: schema.PropulsionGas,
		Size:       schema.CarSizeMedium,
	}, f.Query())

	_, complete := f.Result()
	assert.False(t, complete)
}

func TestForm_Setters(t *testing.T) {
	f := New()
	f.SetOrigin("Main St 1, Springfield")
	f.SetDestination("")
	f.SetFuelType(schema.PropulsionElectric)
	f.SetCarSize(schema.CarSizeLarge)

	assert.Equal(t, schema.CommuteQuery{
		Origin:     "Main St 1, Springfield",
		Propulsion: schema.PropulsionElectric,
		Size:       schema.CarSizeLarge,
	}, f.Query())

	f.SetOrigin("Elm St 2")
	assert.Equal(t, schema.Location("Elm St 2"), f.Query().Origin)
}

func TestForm_CompleteLastWriteWins(t *testing.T) {
	f := New()

	f.Complete(schema.EstimateResult{Emissions: 1000, Duration: 60})
	f.Complete(schema.EstimateResult{Emissions: 2000, Duration: 120})

	result, complete := f.Result()
	assert.True(t, complete)
	assert.Equal(t, schema.EstimateResult{Emissions: 2000, Duration: 120}, result)
}

func TestForm_ConcurrentAccess(t *testing.T) {
	f := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			f.Complete(schema.EstimateResult{Emissions: float64(i)})
		}(i)
		go func() {
			defer wg.Done()
			f.SetOrigin("Home")
			_ = f.Query()
			_, _ = f.Result()
		}()
	}
	wg.Wait()

	_, complete := f.Result()
	assert.True(t, complete)
}
