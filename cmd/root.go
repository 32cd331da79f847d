package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"samvad/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "samvad",
	Short: "Samvad - document OCR, translation, and analysis",
	Long: `Samvad extracts text from scanned documents with Google Cloud Vision,
translates it through a two-stage machine translation and LLM refinement
pipeline, and answers questions about the result in chat.

Use the process command for one-off documents, or serve to run the HTTP API.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Samvad - document OCR and translation.")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
