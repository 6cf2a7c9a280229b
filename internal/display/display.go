package display

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"greencommute/internal/emission"
	"greencommute/internal/schema"
)

type resultSource interface {
	Result() (schema.EstimateResult, bool)
}

// Emissions grams as kilograms, unrounded: 12345 -> "12.345kg CO2"
func Emissions(grams float64) string {
	return strconv.FormatFloat(grams/1000, 'f', -1, 64) + "kg CO2"
}

// Duration seconds as whole minutes: 119 -> "2 minutes traveltime"
func Duration(seconds float64) string {
	return strconv.FormatFloat(math.Round(seconds/60), 'f', 0, 64) + " minutes traveltime"
}

// Render renders nothing until the request completed
func Render(result schema.EstimateResult, complete bool) string {
	if !complete {
		return ""
	}
	return Emissions(result.Emissions) + "\n" + Duration(result.Duration)
}

func RenderForm(form resultSource) string {
	return Render(form.Result())
}

// Row one transport of a comparison report
type Row struct {
	Kind   schema.TransportKind
	Result schema.EstimateResult
	Err    error
}

// Report writes the comparison of every transport against driving alone
func Report(w io.Writer, rows []Row) error {
	var baseline float64
	for _, row := range rows {
		if row.Kind == schema.TransportCar && row.Err == nil {
			baseline = row.Result.Emissions
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "TRANSPORT\tMINUTES\tKG CO2\tREDUCTION"); err != nil {
		return err
	}
	for _, row := range rows {
		if row.Err != nil {
			if _, err := fmt.Fprintf(tw, "%s\t-\t-\t%s\n", row.Kind.Title(), row.Err); err != nil {
				return err
			}
			continue
		}

		reduction := "-"
		if row.Kind != schema.TransportCar && baseline > 0 {
			savings := emission.Savings(int(row.Result.Emissions), int(baseline))
			reduction = strconv.FormatFloat(savings, 'f', 0, 64) + "%"
		}

		kg := strings.TrimSuffix(Emissions(row.Result.Emissions), "kg CO2")
		minutes := strconv.FormatFloat(math.Round(row.Result.Duration/60), 'f', 0, 64)
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Kind.Title(), minutes, kg, reduction); err != nil {
			return err
		}
	}
	return tw.Flush()
}
