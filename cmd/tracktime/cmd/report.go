package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarchlab/tracktime/analysis"
	"github.com/sarchlab/tracktime/recording"
)

var (
	reportFormat string
	reportSort   string
	reportTop    int
)

var reportCmd = &cobra.Command{
	Use:   "report <log.json> [more logs...]",
	Short: "Summarize recorded time slices",
	Long: `Report reads one or more JSON slice logs and prints per-label statistics
such as the slice count, the total time, and the busy ratio.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "table",
		"output format, one of table, json, csv")
	reportCmd.Flags().StringVar(&reportSort, "sort", "label",
		"sort key, one of label, count, total, average, max, busy")
	reportCmd.Flags().IntVar(&reportTop, "top", 0,
		"only show the first N labels, 0 shows all")

	must(viper.BindPFlag("format", reportCmd.Flags().Lookup("format")))
	must(viper.BindPFlag("sort", reportCmd.Flags().Lookup("sort")))
	must(viper.BindPFlag("top", reportCmd.Flags().Lookup("top")))

	rootCmd.AddCommand(reportCmd)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	records, err := recording.ReadJSONFiles(args...)
	if err != nil {
		return fmt.Errorf("reading logs: %w", err)
	}

	stats := analysis.Summarize(records)

	err = sortStats(stats, viper.GetString("sort"))
	if err != nil {
		return err
	}

	stats = topStats(stats, viper.GetInt("top"))

	switch format := viper.GetString("format"); format {
	case "table":
		renderTable(os.Stdout, stats)
		return nil
	case "json":
		return renderJSON(os.Stdout, stats)
	case "csv":
		return renderCSV(os.Stdout, stats)
	default:
		return fmt.Errorf("unknown format %s, expected table, json, or csv", format)
	}
}

// sortStats reorders the statistics in place. Summarize returns the labels
// alphabetically, so the label key leaves the order untouched. All other keys
// sort in descending order, putting the heaviest labels first.
func sortStats(stats []analysis.LabelStats, key string) error {
	switch key {
	case "label":
	case "count":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Count > stats[j].Count
		})
	case "total":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].TotalTime > stats[j].TotalTime
		})
	case "average":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].AverageTime > stats[j].AverageTime
		})
	case "max":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].MaxTime > stats[j].MaxTime
		})
	case "busy":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].BusyRatio > stats[j].BusyRatio
		})
	default:
		return fmt.Errorf(
			"unknown sort key %s, expected label, count, total, average, max, or busy",
			key)
	}

	return nil
}

func topStats(stats []analysis.LabelStats, n int) []analysis.LabelStats {
	if n <= 0 || n >= len(stats) {
		return stats
	}

	return stats[:n]
}

func renderTable(w io.Writer, stats []analysis.LabelStats) {
	table := tablewriter.NewWriter(w)
	table.Header("Label", "Count", "Total", "Average", "Min", "Max", "Span", "Busy")

	for _, s := range stats {
		table.Append(
			s.Label,
			strconv.FormatUint(s.Count, 10),
			s.TotalTime.String(),
			s.AverageTime.String(),
			s.MinTime.String(),
			s.MaxTime.String(),
			s.SpanTime.String(),
			busyCell(s.BusyRatio),
		)
	}

	table.Render()
}

// busyCell highlights labels that leave little idle time in their span.
func busyCell(ratio float64) string {
	text := fmt.Sprintf("%.1f%%", ratio*100)

	switch {
	case ratio > 0.9:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case ratio > 0.7:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return text
	}
}

func renderJSON(w io.Writer, stats []analysis.LabelStats) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(stats)
}

func renderCSV(w io.Writer, stats []analysis.LabelStats) error {
	writer := csv.NewWriter(w)

	err := writer.Write([]string{
		"Label", "Count",
		"TotalSeconds", "AverageSeconds", "MinSeconds", "MaxSeconds",
		"SpanSeconds", "BusyRatio",
	})
	if err != nil {
		return err
	}

	for _, s := range stats {
		err := writer.Write([]string{
			s.Label,
			strconv.FormatUint(s.Count, 10),
			strconv.FormatFloat(s.TotalTime.Seconds(), 'f', 9, 64),
			strconv.FormatFloat(s.AverageTime.Seconds(), 'f', 9, 64),
			strconv.FormatFloat(s.MinTime.Seconds(), 'f', 9, 64),
			strconv.FormatFloat(s.MaxTime.Seconds(), 'f', 9, 64),
			strconv.FormatFloat(s.SpanTime.Seconds(), 'f', 9, 64),
			strconv.FormatFloat(s.BusyRatio, 'f', 4, 64),
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
