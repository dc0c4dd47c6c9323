package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the callminder application
var rootCmd = &cobra.Command{
	Use:   "callminder",
	Short: "Places voice call reminders for imminent calendar events",
	Long: `callminder watches enrolled users' Google Calendars and places a
Twilio voice call shortly before each upcoming event.

It can run as:
  - An HTTP service driven by an external scheduler (serve)
  - A one-shot dispatch pass printing the run report (dispatch)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "callminder version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDispatchCmd())
	rootCmd.AddCommand(newVersionCmd())
}
