package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statkit/adapters/excel"
	"statkit/array"
	"statkit/stat"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "statkit",
		Short: "Run statistical tests over spreadsheet columns",
	}

	rootCmd.AddCommand(
		newTestsCmd(),
		newRunCmd(),
		newBatteryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "List available statistical tests",
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range stat.Kernels() {
				inputs := fmt.Sprintf("%d", k.NumInputs)
				if k.NumInputs < 0 {
					inputs = "2+"
				}
				fmt.Printf("%-22s inputs=%-3s fields=%s\n", k.Name, inputs, strings.Join(k.Fields, ","))
			}
		},
	}
}

func newRunCmd() *cobra.Command {
	var file string
	var nanPolicy string

	cmd := &cobra.Command{
		Use:   "run [test] [columns...]",
		Short: "Run one test on named columns of an xlsx or csv file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kernel, ok := stat.LookupKernel(args[0])
			if !ok {
				return fmt.Errorf("unknown test %q", args[0])
			}
			policy, err := stat.ParseNaNPolicy(nanPolicy)
			if err != nil {
				return err
			}

			ds, err := excel.NewDataReader(file).ReadData()
			if err != nil {
				return err
			}
			inputs, err := columnsToInputs(ds, args[1:])
			if err != nil {
				return err
			}

			result, err := kernel.Evaluate(inputs, stat.EvalOptions{
				Axis:      array.Flatten(),
				NaNPolicy: policy,
			})
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "xlsx or csv file to read columns from")
	cmd.Flags().StringVar(&nanPolicy, "nan-policy", "omit", "NaN handling: propagate, omit or raise")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newBatteryCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "battery",
		Short: "Run a descriptive and pairwise battery over every column",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.NewDataReader(file).ReadData()
			if err != nil {
				return err
			}
			report, err := runBattery(ds)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "xlsx or csv file to read columns from")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func columnsToInputs(ds *excel.Dataset, names []string) ([]*array.Array, error) {
	inputs := make([]*array.Array, len(names))
	for i, name := range names {
		col, ok := ds.Sample(name)
		if !ok {
			return nil, fmt.Errorf("column %q not found (have: %s)", name, strings.Join(ds.Columns, ", "))
		}
		inputs[i] = array.FromSlice(col)
	}
	return inputs, nil
}

func printResult(result *stat.EvalResult) {
	for i, name := range result.Names {
		fmt.Printf("%s = %.10g\n", name, result.Fields[i].At())
	}
	for _, a := range result.Diagnostics.Advisories() {
		fmt.Printf("advisory: %s: %s\n", a.Kind, a.Message)
	}
}

// BatteryReport summarizes every column and every column pair of a dataset.
type BatteryReport struct {
	Columns  map[string]map[string]float64 `json:"columns"`
	Pairwise []PairwiseEntry               `json:"pairwise"`
}

// PairwiseEntry holds correlation results for one column pair.
type PairwiseEntry struct {
	X           string  `json:"x"`
	Y           string  `json:"y"`
	PearsonR    float64 `json:"pearson_r"`
	PearsonP    float64 `json:"pearson_p"`
	SpearmanRho float64 `json:"spearman_rho"`
	SpearmanP   float64 `json:"spearman_p"`
}

func runBattery(ds *excel.Dataset) (*BatteryReport, error) {
	report := &BatteryReport{Columns: make(map[string]map[string]float64)}

	describe, _ := stat.LookupKernel("describe")
	normal, _ := stat.LookupKernel("normaltest")
	for _, name := range ds.Columns {
		col, _ := ds.Sample(name)
		summary := map[string]float64{}
		input := []*array.Array{array.FromSlice(col)}
		opts := stat.EvalOptions{Axis: array.Flatten(), NaNPolicy: stat.Omit}

		if res, err := describe.Evaluate(input, opts); err == nil {
			for i, field := range res.Names {
				summary[field] = res.Fields[i].At()
			}
		}
		if res, err := normal.Evaluate(input, opts); err == nil {
			summary["normaltest_stat"] = res.Fields[0].At()
			summary["normaltest_p"] = res.Fields[1].At()
		}
		report.Columns[name] = summary
	}

	pearson, _ := stat.LookupKernel("pearsonr")
	spearman, _ := stat.LookupKernel("spearmanr")
	for i := 0; i < len(ds.Columns); i++ {
		for j := i + 1; j < len(ds.Columns); j++ {
			x, _ := ds.Sample(ds.Columns[i])
			y, _ := ds.Sample(ds.Columns[j])
			inputs := []*array.Array{array.FromSlice(x), array.FromSlice(y)}
			opts := stat.EvalOptions{Axis: array.Flatten(), NaNPolicy: stat.Omit}

			entry := PairwiseEntry{X: ds.Columns[i], Y: ds.Columns[j]}
			if res, err := pearson.Evaluate(inputs, opts); err == nil {
				entry.PearsonR = res.Fields[0].At()
				entry.PearsonP = res.Fields[1].At()
			}
			if res, err := spearman.Evaluate(inputs, opts); err == nil {
				entry.SpearmanRho = res.Fields[0].At()
				entry.SpearmanP = res.Fields[1].At()
			}
			report.Pairwise = append(report.Pairwise, entry)
		}
	}
	return report, nil
}
