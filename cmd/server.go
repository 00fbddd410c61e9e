package cmd

import (
	"cryptodash/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard HTTP server",
	Long:  `Start the crypto dashboard backend, serving the auth, preferences, dashboard and feedback APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
