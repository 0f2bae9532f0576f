package main

import (
	"fmt"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/rpgo/lifesim/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep initial income and capital and report success rates",
		Example: `  lifesim sensitivity --income-min 10 --income-max 30 --capital-min 5 --capital-max 40 --runs 50
  lifesim sensitivity --format csv --seed 7 > sweep.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			params, err := sensitivityParamsFromFlags(cmd)
			if err != nil {
				return err
			}
			formatName, _ := cmd.Flags().GetString("format")

			cells, err := env.analyzer(env.engine()).Run(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("sensitivity analysis failed: %w", err)
			}
			data, err := output.FormatSensitivity(formatName, &output.SensitivityReport{Params: params, Cells: cells})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().Float64("income-min", 10, "Lowest initial income in lakhs")
	cmd.Flags().Float64("income-max", 30, "Highest initial income in lakhs")
	cmd.Flags().Float64("income-step", 5, "Income step in lakhs")
	cmd.Flags().Float64("capital-min", 5, "Lowest initial capital in lakhs")
	cmd.Flags().Float64("capital-max", 40, "Highest initial capital in lakhs")
	cmd.Flags().Float64("capital-step", 5, "Capital step in lakhs")
	cmd.Flags().Int("current-age", 26, "Age at the start of each projection")
	cmd.Flags().Int("future-age", 60, "Last age to project")
	cmd.Flags().String("luck", string(domain.Neutral), "Luck factor: unlucky, neutral, lucky")
	cmd.Flags().Int("runs", 10, "Simulations per income/capital combination")
	cmd.Flags().Float64("threshold", 200, "Final savings (lakhs) that count as success")
	cmd.Flags().Float64("min-success", 50, "Success rate percentage a combination must reach")
	cmd.Flags().Float64("ratio", 0.2, "Initial expenditure as a share of income")
	cmd.Flags().Int64("seed", 0, "Base random seed (0 picks one)")
	cmd.Flags().String("format", "console", "Output format: console, csv, json")
	return cmd
}

func sensitivityParamsFromFlags(cmd *cobra.Command) (domain.SensitivityParameters, error) {
	f := func(name string) decimal.Decimal {
		v, _ := cmd.Flags().GetFloat64(name)
		return decimal.NewFromFloat(v)
	}
	currentAge, _ := cmd.Flags().GetInt("current-age")
	futureAge, _ := cmd.Flags().GetInt("future-age")
	runs, _ := cmd.Flags().GetInt("runs")
	seed, _ := cmd.Flags().GetInt64("seed")
	luckName, _ := cmd.Flags().GetString("luck")

	luck, err := domain.ParseLuckFactor(luckName)
	if err != nil {
		return domain.SensitivityParameters{}, err
	}
	return domain.SensitivityParameters{
		IncomeRange:               domain.ValueRange{Min: f("income-min"), Max: f("income-max"), Step: f("income-step")},
		CapitalRange:              domain.ValueRange{Min: f("capital-min"), Max: f("capital-max"), Step: f("capital-step")},
		CurrentAge:                currentAge,
		FutureAge:                 futureAge,
		LuckFactor:                luck,
		ExpenditureToIncomeRatio:  f("ratio"),
		SimulationsPerCombination: runs,
		SuccessThresholdSavings:   f("threshold"),
		MinSuccessRatePct:         f("min-success"),
		Seed:                      seed,
	}, nil
}
