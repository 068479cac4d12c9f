package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/austin-mroz/summit/opt"
	"github.com/austin-mroz/summit/opt/gp"
)

var (
	// CLI flags for the optimization campaign
	seed          int64  // Seed driving every stochastic component
	numBatches    int    // Optimization rounds after the initial design
	batchSize     int    // Candidates proposed and evaluated per round
	numComponents int    // Principal components kept from the raw descriptors
	normalize     bool   // z-score inputs/outputs before surrogate fitting
	fitRetries    int    // Surrogate refit attempts before a fit failure is fatal
	parallelEvals int    // Oracle evaluations in flight per batch
	restarts      int    // Hyperparameter search restarts per surrogate fit
	logLevel      string // Log verbosity level
	descriptors   string // Path to the solvent descriptor CSV
	outputDir     string // Results directory
	configPath    string // Optional campaign spec YAML; explicit flags override its values
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "summit",
	Short: "Closed-loop multiobjective solvent optimization",
}

// runCmd executes a full campaign using parameters from CLI flags or a
// campaign spec file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the optimization campaign",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		spec := &CampaignSpec{
			Seed:             seed,
			NumBatches:       numBatches,
			BatchSize:        batchSize,
			NumComponents:    numComponents,
			Normalize:        normalize,
			FitRetries:       fitRetries,
			MaxParallelEvals: parallelEvals,
			Restarts:         restarts,
			Descriptors:      descriptors,
			Output:           outputDir,
		}
		if configPath != "" {
			spec, err = LoadCampaignSpec(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load campaign spec: %v", err)
			}
			applyFlagOverrides(cmd.Flags(), spec)
		}
		if err := spec.Validate(); err != nil {
			logrus.Fatalf("Invalid campaign configuration: %v", err)
		}

		raw, err := opt.LoadDesignSpace(spec.Descriptors)
		if err != nil {
			logrus.Fatalf("Failed to load descriptor table: %v", err)
		}
		logrus.Infof("%d solvents for optimization", raw.Len())

		space, explained, err := opt.ReduceDesignSpace(raw, spec.NumComponents)
		if err != nil {
			logrus.Fatalf("Descriptor reduction failed: %v", err)
		}
		logrus.Infof("%.0f%% of variance is explained by %d principal components", explained*100, spec.NumComponents)

		oracle := opt.NewKineticsOracle(opt.DefaultKineticsParams())
		fitter := gp.NewFitter(gp.Config{Normalize: spec.Normalize, Restarts: spec.Restarts})

		campaign, err := opt.NewCampaign(spec.RunConfig(), space, oracle, fitter)
		if err != nil {
			logrus.Fatalf("Failed to construct campaign: %v", err)
		}

		startTime := time.Now()
		diagnostics, err := campaign.Run()
		if err != nil {
			logrus.Fatalf("Campaign failed: %v", err)
		}
		logrus.Infof("Campaign finished in %v", time.Since(startTime))

		diagnostics.Print(os.Stdout)
		if spec.Output != "" {
			if err := writeResults(spec.Output, spec, diagnostics, campaign.History()); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
			logrus.Infof("Results written to %s", spec.Output)
		}
	},
}

// applyFlagOverrides copies explicitly-set command-line values over a file
// spec, so flags win for any parameter given both ways.
func applyFlagOverrides(flags *pflag.FlagSet, spec *CampaignSpec) {
	if flags.Changed("seed") {
		spec.Seed = seed
	}
	if flags.Changed("num-batches") {
		spec.NumBatches = numBatches
	}
	if flags.Changed("batch-size") {
		spec.BatchSize = batchSize
	}
	if flags.Changed("num-components") {
		spec.NumComponents = numComponents
	}
	if flags.Changed("normalize") {
		spec.Normalize = normalize
	}
	if flags.Changed("fit-retries") {
		spec.FitRetries = fitRetries
	}
	if flags.Changed("parallel-evals") {
		spec.MaxParallelEvals = parallelEvals
	}
	if flags.Changed("restarts") {
		spec.Restarts = restarts
	}
	if flags.Changed("descriptors") {
		spec.Descriptors = descriptors
	}
	if flags.Changed("output") {
		spec.Output = outputDir
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 1000, "Seed driving all stochastic components")
	runCmd.Flags().IntVar(&numBatches, "num-batches", 4, "Number of optimization rounds after the initial design")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 8, "Candidates proposed and evaluated per round")
	runCmd.Flags().IntVar(&numComponents, "num-components", 3, "Principal components kept from the raw descriptors")
	runCmd.Flags().BoolVar(&normalize, "normalize", false, "z-score inputs/outputs before surrogate fitting")
	runCmd.Flags().IntVar(&fitRetries, "fit-retries", 0, "Surrogate refit attempts before a fit failure aborts the round")
	runCmd.Flags().IntVar(&parallelEvals, "parallel-evals", 1, "Oracle evaluations in flight per batch")
	runCmd.Flags().IntVar(&restarts, "restarts", 4, "Hyperparameter search restarts per surrogate fit")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&descriptors, "descriptors", "inputs/descriptors.csv", "Path to the solvent descriptor CSV")
	runCmd.Flags().StringVar(&outputDir, "output", "outputs", "Directory for campaign results")
	runCmd.Flags().StringVar(&configPath, "config", "", "Campaign spec YAML (explicit flags override its values)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
