package cmd

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"samvad/internal/config"
	"samvad/internal/logger"
)

var processCmd = &cobra.Command{
	Use:   "process [document-file]",
	Short: "Extract and translate text from a PDF or image",
	Long: `Process a scanned document end to end: render PDF pages, recognize
text with Google Cloud Vision, compose it into verses and sentences, and
translate it into the target language.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key for the refinement stage
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Translate a scanned PDF to stdout
  samvad process scripture.pdf

  # Translate a photo of a page into German
  TARGET_LANGUAGE=de samvad process page.jpg

  # Save the structured result as JSON
  samvad process scripture.pdf --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	processCmd.Flags().Bool("json", false, "Output the full result as JSON")
	processCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("process")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	documentPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := os.ReadFile(documentPath)
	if err != nil {
		log.Error().Err(err).Str("file", documentPath).Msg("Failed to read document")
		return fmt.Errorf("failed to read document: %w", err)
	}

	contentType := contentTypeForFile(documentPath)

	log.Info().
		Str("file", documentPath).
		Str("content_type", contentType).
		Str("target_language", cfg.TargetLanguage).
		Msg("Starting document processing")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	built, err := buildPipelines(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	result, err := built.standard.Process(ctx, data, contentType)
	if err != nil {
		log.Error().Err(err).Msg("Document processing failed")
		return err
	}

	log.Info().
		Int("segments", len(result.Original)).
		Int("skipped_pages", len(result.SkippedPages)).
		Msg("Document processed")

	var output string
	if jsonOutput {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		output = string(encoded)
	} else {
		output = result.Translated
	}

	if outputPath == "" {
		fmt.Println(output)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info().Str("output", outputPath).Msg("Result written")
	return nil
}

// contentTypeForFile maps a file extension to the pipeline content type,
// defaulting to PDF for unknown extensions.
func contentTypeForFile(path string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return "application/pdf"
}
