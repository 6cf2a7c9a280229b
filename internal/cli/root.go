package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"greencommute/internal/requester"
	"greencommute/internal/schema"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "GREENCOMMUTE"

// NewRootCmd builds the greencommute command tree on its own viper instance
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "greencommute",
		Short: "Estimates the CO2 footprint of a commute",
		Long: `greencommute asks the estimate service how much CO2 a commute between home and work emits,
and how long it takes, by car or by any of the greener alternatives.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			initLogger(v.GetBool("verbose"))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.greencommute.yaml)")
	rootCmd.PersistentFlags().String("server", requester.DefaultBaseURL, "Estimate service base url")
	rootCmd.PersistentFlags().Duration("wait", 10*time.Second, "How long to wait for the estimate service")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log requests")
	_ = v.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newEstimateCmd(v), newCompareCmd(v))
	return rootCmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".greencommute")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		return nil
	}
	log.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	return nil
}

func initLogger(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// addCommuteFlags flags of the commute form
func addCommuteFlags(cmd *cobra.Command) {
	cmd.Flags().String("home", "", "Home address")
	cmd.Flags().String("work", "", "Work address")
	cmd.Flags().String("fuel", string(schema.PropulsionGas), "Fuel type: gas, diesel or electric")
	cmd.Flags().String("size", string(schema.CarSizeMedium), "Car size: small, medium or large")
}

// bindFlags binds the flags of the running command only, sibling commands share flag names
func bindFlags(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return v.BindPFlags(cmd.Flags())
	}
}

func commuteQuery(v *viper.Viper) (schema.CommuteQuery, error) {
	fuel, err := schema.ParsePropulsion(v.GetString("fuel"))
	if err != nil {
		return schema.CommuteQuery{}, err
	}
	size, err := schema.ParseCarSize(v.GetString("size"))
	if err != nil {
		return schema.CommuteQuery{}, err
	}
	return schema.CommuteQuery{
		Origin:      schema.Location(v.GetString("home")),
		Destination: schema.Location(v.GetString("work")),
		Propulsion:  fuel,
		Size:        size,
		Stopover:    schema.Location(v.GetString("stopover")),
	}, nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
