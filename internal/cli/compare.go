package cli

import (
	"context"

	"greencommute/internal/display"
	"greencommute/internal/requester"
	"greencommute/internal/schema"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type transportFetcher interface {
	FetchTransport(ctx context.Context, kind schema.TransportKind, query schema.CommuteQuery) (schema.EstimateResult, error)
}

func newCompareCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare driving alone with carpooling, cycling, public transport and walking",
		Example: `  greencommute compare --home "Main St 1" --work "Office Park 5" --stopover "Elm St 2"`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := commuteQuery(v)
			if err != nil {
				return err
			}

			r, err := requester.New(v.GetString("server"), v.GetDuration("wait"))
			if err != nil {
				return err
			}

			rows := compare(cmd.Context(), r, query)
			return display.Report(cmd.OutOrStdout(), rows)
		},
	}

	addCommuteFlags(cmd)
	cmd.Flags().String("stopover", "", "Address of the person picked up when carpooling")
	return cmd
}

// compare fetches every transport concurrently, failures end up in their row
func compare(ctx context.Context, fetcher transportFetcher, query schema.CommuteQuery) []display.Row {
	kinds := make([]schema.TransportKind, 0, len(schema.TransportKinds))
	for _, kind := range schema.TransportKinds {
		if kind == schema.TransportCarPool && query.Stopover == "" {
			continue
		}
		kinds = append(kinds, kind)
	}

	rows := make([]display.Row, len(kinds))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		group.Go(func() error {
			result, err := fetcher.FetchTransport(groupCtx, kind, query)
			if err != nil {
				log.Warn().Err(err).Str("transport", string(kind)).Msg("estimate failed")
			}
			rows[i] = display.Row{Kind: kind, Result: result, Err: err}
			return nil
		})
	}
	_ = group.Wait()

	return rows
}
