package main

import (
	"fmt"

	"github.com/rpgo/lifesim/internal/calculation"
	"github.com/rpgo/lifesim/internal/domain"
	"github.com/rpgo/lifesim/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project a single life year by year",
		Example: `  lifesim simulate --income 20 --expenditure 4 --capital 20 --luck unlucky
  lifesim simulate --seed 42 --format csv > run.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRuntime(cmd)
			if err != nil {
				return err
			}

			params, err := simulationParamsFromFlags(cmd)
			if err != nil {
				return err
			}
			formatName, _ := cmd.Flags().GetString("format")
			formatter, err := output.GetFormatterByName(formatName)
			if err != nil {
				return err
			}

			engine := env.engine()
			if noEvents, _ := cmd.Flags().GetBool("no-events"); noEvents {
				engine.DisableEvents()
			}
			seed, _ := cmd.Flags().GetInt64("seed")
			if seed == 0 {
				seed = calculation.NewSeed()
			}
			records, err := engine.RunSeeded(params, seed)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			report := output.NewRunReport(params, seed, records, env.cfg.Assumptions)
			if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
				path, err := output.WriteFormatted(formatter, report, dir)
				if err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}
			data, err := formatter.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().Float64("income", 20, "Initial annual income in lakhs")
	cmd.Flags().Float64("expenditure", 4, "Initial annual expenditure in lakhs")
	cmd.Flags().Float64("capital", 20, "Initial capital in lakhs")
	cmd.Flags().Int("current-age", 26, "Age at the start of the projection")
	cmd.Flags().Int("future-age", 60, "Last age to project")
	cmd.Flags().String("luck", string(domain.Neutral), "Luck factor: unlucky, neutral, lucky")
	cmd.Flags().Int64("seed", 0, "Random seed (0 picks one)")
	cmd.Flags().String("format", "console", "Output format: console, csv, json")
	cmd.Flags().String("output-dir", "", "Write the report to a timestamped file in this directory")
	cmd.Flags().Bool("no-events", false, "Disable random events (pure compounding)")
	return cmd
}

func simulationParamsFromFlags(cmd *cobra.Command) (domain.SimulationParameters, error) {
	income, _ := cmd.Flags().GetFloat64("income")
	expenditure, _ := cmd.Flags().GetFloat64("expenditure")
	capital, _ := cmd.Flags().GetFloat64("capital")
	currentAge, _ := cmd.Flags().GetInt("current-age")
	futureAge, _ := cmd.Flags().GetInt("future-age")
	luckName, _ := cmd.Flags().GetString("luck")

	luck, err := domain.ParseLuckFactor(luckName)
	if err != nil {
		return domain.SimulationParameters{}, err
	}
	return domain.SimulationParameters{
		InitialIncome:      decimal.NewFromFloat(income),
		InitialExpenditure: decimal.NewFromFloat(expenditure),
		InitialCapital:     decimal.NewFromFloat(capital),
		CurrentAge:         currentAge,
		FutureAge:          futureAge,
		LuckFactor:         luck,
	}, nil
}
