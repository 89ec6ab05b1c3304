package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pairpower/adapters/rng"
	"pairpower/adapters/sampling"
	"pairpower/app"
	"pairpower/domain/core"
	"pairpower/domain/power"
	"pairpower/internal"
	"pairpower/internal/config"
	"pairpower/internal/simulation"
)

func main() {
	// Optional .env; environment variables win either way.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "pairpower",
		Short: "Sample size estimation and Monte Carlo validation for paired diagnostic tests",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newEstimateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		trials  int
		seed    int64
		workers int
		noScale bool
		studyID string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate the required sample size and validate it by simulation",
		Long: `Compute the minimum number of true-positive pairs for a one-tailed exact
McNemar comparison of two diagnostic tests, then simulate repeated cohorts
under the assumed parameters and report the empirical rejection rate.

Study parameters come from the environment (STUDY_* / SIM_* variables, with
an optional .env file); flags override the simulation settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("trials") {
				cfg.Simulation.Trials = trials
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if cmd.Flags().Changed("workers") {
				cfg.Simulation.MaxConcurrent = workers
			}
			if noScale {
				cfg.Simulation.ScaleByPrevalence = false
			}

			var id core.StudyID
			if studyID != "" {
				id, err = core.ParseStudyID(studyID)
				if err != nil {
					return err
				}
			}

			logger := internal.NewDefaultLogger()
			validator := simulation.NewValidator(
				simulation.NewGenerator(sampling.NewBernoulliSampler()),
				rng.NewStreamAdapter(),
				logger,
			)
			service := app.NewPowerStudyService(validator, logger)

			result, err := service.Run(context.Background(), app.StudyRequest{
				Prevalence:        cfg.Study.Prevalence,
				SensitivityA:      cfg.Study.SensitivityA,
				SensitivityB:      cfg.Study.SensitivityB,
				Alpha:             cfg.Study.Alpha,
				Power:             cfg.Study.Power,
				Confidence:        cfg.Study.Confidence,
				Trials:            cfg.Simulation.Trials,
				Seed:              cfg.Simulation.Seed,
				MaxConcurrent:     cfg.Simulation.MaxConcurrent,
				ScaleByPrevalence: cfg.Simulation.ScaleByPrevalence,
				StudyID:           id,
			})
			if err != nil {
				return err
			}

			fmt.Println(result.Summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&trials, "trials", 1000, "number of Monte Carlo trials")
	cmd.Flags().Int64Var(&seed, "seed", 42, "base RNG seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "max concurrent trials (0 = NumCPU)")
	cmd.Flags().BoolVar(&noScale, "no-prevalence-scaling", false,
		"simulate the raw pair count as the cohort size instead of scaling by prevalence")
	cmd.Flags().StringVar(&studyID, "study-id", "",
		"UUID to tag the study with (generated if empty)")

	return cmd
}

func newEstimateCmd() *cobra.Command {
	var (
		sensA, sensB float64
		alpha, pw    float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the required matched-pair counts without simulating",
		RunE: func(cmd *cobra.Command, args []string) error {
			estimate, err := power.PairsRequired(power.Params{
				SensitivityA: sensA,
				SensitivityB: sensB,
				Alpha:        alpha,
				Power:        pw,
			})
			if err != nil {
				return err
			}
			fmt.Printf("required true-positive pairs: min=%d mid=%d max=%d (approx power at min: %.3f)\n",
				estimate.Minimum, estimate.Midpoint, estimate.Maximum, estimate.AchievedPower)
			return nil
		},
	}

	cmd.Flags().Float64Var(&sensA, "sensitivity-a", 0.82, "assumed sensitivity of test A")
	cmd.Flags().Float64Var(&sensB, "sensitivity-b", 0.73, "assumed sensitivity of test B")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "one-tailed significance level")
	cmd.Flags().Float64Var(&pw, "power", 0.8, "target power")

	return cmd
}
