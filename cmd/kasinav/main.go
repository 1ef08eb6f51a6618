// Command kasinav runs the Kasi-Nav delivery API and its helper tools.
//
//	@title						Kasi-Nav API
//	@version					1.0
//	@description				Landmark-based last-mile delivery for township addresses.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kasinav",
	Short: "Kasi-Nav landmark delivery service",
	Long: `Kasi-Nav lets consumers describe a dropoff by nearby landmarks instead of
a street address, and lets couriers and spaza hubs move deliveries along.

Configuration is read from the environment (PORT, STORAGE_DRIVER, MONGO_URI,
REDIS_ADDR, GEMINI_API_KEY, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
