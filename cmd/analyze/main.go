package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"context-signals-go/internal/analyzer"
	"context-signals-go/internal/config"
	"context-signals-go/internal/dataset"
	"context-signals-go/internal/logger"
	"context-signals-go/internal/types"
)

var (
	noVerbs bool
	inPath  string
	outPath string
)

var rootCmd = &cobra.Command{
	Use:          "analyze",
	Short:        "Score Japanese business messages for emotion, urgency, certainty and politeness",
	SilenceUsage: true,
}

var textCmd = &cobra.Command{
	Use:   "text <message>",
	Short: "Analyze one message and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		an, err := build()
		if err != nil {
			return err
		}
		out, err := an.Analyze(cmd.Context(), types.AnalysisInput{ID: "cli", Text: strings.Join(args, " ")}, options()...)
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every message in an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := dataset.Load(inPath)
		if err != nil {
			return fmt.Errorf("load %s: %w", inPath, err)
		}
		an, err := build()
		if err != nil {
			return err
		}
		out, err := an.AnalyzeBatch(cmd.Context(), inputs, options()...)
		if err != nil {
			return err
		}
		if outPath != "" {
			if err := dataset.WriteReport(outPath, out); err != nil {
				return err
			}
			return printJSON(out.Summary)
		}
		return printJSON(out)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noVerbs, "no-verbs", false, "skip state/action verb classification")
	batchCmd.Flags().StringVar(&inPath, "in", "", "input workbook (.xlsx)")
	batchCmd.Flags().StringVar(&outPath, "out", "", "write an xlsx report here instead of printing every item")
	_ = batchCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(textCmd, batchCmd)
}

func build() (*analyzer.Analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New()
	// stdout carries the JSON result
	log.Logger.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)
	return cfg.NewAnalyzer(log)
}

func options() []analyzer.AnalyzeOption {
	if noVerbs {
		return []analyzer.AnalyzeOption{analyzer.WithVerbAnalysis(false)}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
