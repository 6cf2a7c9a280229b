package cli

import (
	"fmt"
	"time"

	"greencommute/internal/display"
	"greencommute/internal/form"
	"greencommute/internal/requester"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newEstimateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the CO2 emissions and travel time of driving to work",
		Example: `  greencommute estimate --home "Main St 1, Springfield" --work "Office Park 5" --fuel diesel --size small`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := commuteQuery(v)
			if err != nil {
				return err
			}

			r, err := requester.New(v.GetString("server"), 0)
			if err != nil {
				return err
			}

			f := form.New()
			f.SetOrigin(query.Origin)
			f.SetDestination(query.Destination)
			f.SetFuelType(query.Propulsion)
			f.SetCarSize(query.Size)

			done := r.Submit(cmd.Context(), f)
			timer := time.NewTimer(v.GetDuration("wait"))
			defer timer.Stop()
			select {
			case <-done:
			case <-timer.C:
			}

			// a failed request leaves the form incomplete and nothing is printed
			if out := display.RenderForm(f); out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	addCommuteFlags(cmd)
	return cmd
}
