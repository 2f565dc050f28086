package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tracktime/recording"
	"github.com/sarchlab/tracktime/tracking"
)

var (
	convertTo  string
	convertOut string
)

var convertCmd = &cobra.Command{
	Use:   "convert <log.json> [more logs...]",
	Short: "Convert JSON slice logs to SQLite or CSV",
	Long: `Convert reads one or more JSON slice logs and rewrites the merged records
into a SQLite database or a CSV file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "sqlite",
		"target format, one of sqlite, csv")
	convertCmd.Flags().StringVar(&convertOut, "out", "",
		"output file, a name is generated when empty")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	records, err := recording.ReadJSONFiles(args...)
	if err != nil {
		return fmt.Errorf("reading logs: %w", err)
	}

	var backend recording.Backend

	switch convertTo {
	case "sqlite":
		// The backend appends the .sqlite3 suffix itself.
		backend = recording.NewSQLiteBackend(
			strings.TrimSuffix(convertOut, ".sqlite3"))
	case "csv":
		backend = recording.NewCSVBackend(convertOut)
	default:
		return fmt.Errorf("unknown target format %s, expected sqlite or csv",
			convertTo)
	}

	for _, label := range sortedLabels(records) {
		for _, rec := range records[label] {
			backend.Write(label, rec)
		}
	}

	backend.Flush()

	return nil
}

func sortedLabels(records map[string][]tracking.Record) []string {
	labels := make([]string, 0, len(records))
	for label := range records {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	return labels
}
