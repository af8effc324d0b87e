package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calagent application
var rootCmd = &cobra.Command{
	Use:   "calagent",
	Short: "Google Calendar tool server for voice agents",
	Long: `calagent exposes Google Calendar as a small set of agent tools
(create_event, list_events, manage_event) that a voice-agent platform can
call during a conversation.

It can run as:
  - A webhook HTTP server receiving tool calls from a voice platform (default)
  - An MCP (Model Context Protocol) server over stdio for AI assistants
  - A one-shot CLI dispatching a single tool call`,
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
	rootCmd.SetVersionTemplate(`{{printf "calagent version %s\n" .Version}}`)

	// Credentials usually live in a .env file during development. A missing
	// file is not an error.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the calagent version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("calagent version %s\n", version)
		},
	}
}
