// Command ferrysim simulates one operating day of a vehicle ferry terminal
// and writes the resulting queueing metrics.
//
//	ferrysim run     [--config day.yaml] [--seed N] [--output result.yaml] [--trace events.yaml]
//	ferrysim compare [--config day.yaml] [--seed N] [--rate 0.3] [--output comparison.json]
//
// Settings may also come from FERRYSIM_* environment variables.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iti/ferrysim"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ferrysim run|compare [flags]")
		os.Exit(2)
	}
	command := strings.ToLower(os.Args[1])

	flags := pflag.NewFlagSet(command, pflag.ExitOnError)
	if err := loadSettings(flags, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	log := setupLogging(viper.GetString("logLevel"))
	ferrysim.SetLogger(log)

	cfg, err := simConfig()
	if err != nil {
		log.Error().Err(err).Msg("loading simulation config")
		os.Exit(1)
	}

	switch command {
	case "run":
		err = runDay(cfg)
	case "compare":
		err = compareDay(cfg, viper.GetFloat64("rate"))
	default:
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("simulation failed")
		os.Exit(1)
	}
}

// loadSettings registers defaults, binds the command line and the environment
func loadSettings(flags *pflag.FlagSet, args []string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("config", "")
	viper.SetDefault("seed", 0)
	viper.SetDefault("rate", 0.3)
	viper.SetDefault("output", "")
	viper.SetDefault("trace", "")

	flags.String("logLevel", "info", "debug, info, warn or error")
	flags.String("config", "", "simulation config file (.yaml, .yml or .json) overriding the defaults")
	flags.Int64("seed", 0, "random seed; 0 draws an unseeded stream")
	flags.Float64("rate", 0.3, "reservation rate of the comparison run")
	flags.String("output", "", "result file (.yaml, .yml or .json); stdout when empty")
	flags.String("trace", "", "event log file (.yaml, .yml or .json); no log when empty")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := viper.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	viper.SetEnvPrefix("ferrysim")
	viper.AutomaticEnv()
	return nil
}

func setupLogging(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

// simConfig starts from the defaults and applies the config file and the seed
func simConfig() (ferrysim.SimConfig, error) {
	cfg := ferrysim.DefaultSimConfig()
	if filename := viper.GetString("config"); filename != "" {
		read, err := ferrysim.ReadSimConfig(filename, ferrysim.UseYAML(filename), nil)
		if err != nil {
			return cfg, err
		}
		cfg = *read
	}
	if viper.IsSet("seed") && viper.GetInt64("seed") != 0 {
		cfg.Seed = viper.GetInt64("seed")
	}
	cfg.Trace = cfg.Trace || viper.GetString("trace") != ""
	return cfg, nil
}

func runDay(cfg ferrysim.SimConfig) error {
	eng, err := ferrysim.NewEngine(cfg, nil)
	if err != nil {
		return err
	}
	res, err := eng.Run()
	if err != nil {
		return err
	}
	if traceFile := viper.GetString("trace"); traceFile != "" {
		if _, err := eng.Trace().WriteToFile(traceFile); err != nil {
			return err
		}
		res.Events = nil
	}
	if output := viper.GetString("output"); output != "" {
		return res.WriteToFile(output)
	}
	printResult(&res)
	return nil
}

func compareDay(cfg ferrysim.SimConfig, rate float64) error {
	cmpr, err := ferrysim.RunComparison(cfg, rate)
	if err != nil {
		return err
	}
	if output := viper.GetString("output"); output != "" {
		return cmpr.WriteToFile(output)
	}
	fmt.Println("baseline (no reservations)")
	printResult(&cmpr.Baseline)
	fmt.Printf("\nwith reservations (%.0f%%)\n", rate*100)
	printResult(&cmpr.WithReservations)
	fmt.Printf("\nwait reduction %.1f%%, utilization delta %+.1f points, backlog delta %+d\n",
		cmpr.Improvement.WaitReductionPercent, cmpr.Improvement.UtilizationDelta,
		cmpr.Improvement.BacklogDelta)
	return nil
}

func printResult(res *ferrysim.SimulationResult) {
	fmt.Printf("  arrivals %d, processed %d, backlog %d, trips %d\n",
		res.TotalArrivals, res.Processed, res.Backlog, res.TotalTrips)
	fmt.Printf("  Wq %.1f min (reserved %.1f, unreserved %.1f), p90 %.1f, Lq %.1f\n",
		res.MeanWait, res.MeanWaitReserved, res.MeanWaitUnreserved, res.P90Wait, res.MeanQueueLength)
	for _, vs := range res.Vessels {
		fmt.Printf("  %-10s trips %3d  utilization %5.1f%%  failures %d\n",
			vs.Name, vs.Trips, vs.Utilization, vs.Failures)
	}
}
