package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/parselinks/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the batch converter over HTTP",
	Long: `Serve starts the HTTP API:

  POST /parse-links  {"links": ["https://..."]}
  GET  /healthz

Examples:
  parselinks serve --port 8080
  PARSELINKS_SERVER_RATE_LIMIT=5 parselinks serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 3000, "Port to listen on")
}

func runServe(cmd *cobra.Command, _ []string) error {
	dispatcher := newDispatcher(appConfig, newConverter(appConfig, logger), logger)

	srv := server.New(server.Config{
		Port:      appConfig.Server.Port,
		RateLimit: appConfig.Server.RateLimit,
		RateBurst: appConfig.Server.RateBurst,
	}, dispatcher, logger)

	return srv.Run(cmd.Context())
}
