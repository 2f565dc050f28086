package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarchlab/tracktime/monitoring"
	"github.com/sarchlab/tracktime/recording"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve <log.json> [more logs...]",
	Short: "Serve recorded time slices over HTTP",
	Long: `Serve loads one or more JSON slice logs and starts the monitoring server
over them. The dashboard and the REST API stay up until the process is killed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 3001,
		"port of the monitoring server, ports below 1000 fall back to a random one")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"open the dashboard in the default browser")

	must(viper.BindPFlag("port", serveCmd.Flags().Lookup("port")))
	must(viper.BindPFlag("open", serveCmd.Flags().Lookup("open")))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	records, err := recording.ReadJSONFiles(args...)
	if err != nil {
		return fmt.Errorf("reading logs: %w", err)
	}

	store := recording.NewStore()
	store.Load(records)

	monitor := monitoring.NewMonitor().
		WithPortNumber(viper.GetInt("port"))

	if viper.GetBool("open") {
		monitor = monitor.WithBrowserOpening()
	}

	monitor.RegisterStore(store)
	monitor.StartServer()

	select {}
}
