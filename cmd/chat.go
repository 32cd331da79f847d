package cmd

import (
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"samvad/internal/chat"
	"samvad/internal/config"
	"samvad/internal/llm"
	"samvad/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a one-off question about a translated document",
	Long: `Send a single question to the Samvad assistant. With --context, the
given file's text is provided to the assistant as the document under
discussion.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key`,
	Example: `  # Ask a general question
  samvad chat "What is a shloka?"

  # Ask about a previously translated document
  samvad chat --context translated.txt "What is the main theme?"`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("context", "c", "", "Path to a text file used as document context")
	chatCmd.Flags().Int("timeout", 120, "Request timeout in seconds")
}

func runChat(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("chat")

	contextPath, _ := cmd.Flags().GetString("context")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var documentContext string
	if contextPath != "" {
		data, err := os.ReadFile(contextPath)
		if err != nil {
			return fmt.Errorf("failed to read context file: %w", err)
		}
		documentContext = string(data)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	service := chat.NewService(
		llm.NewOpenAIChatServiceWithClient(openai.NewClient(cfg.OpenAIAPIKey)),
		cfg.OpenAIModel,
		0,
	)

	history := []llm.Message{{Role: llm.RoleUser, Content: args[0]}}
	reply, err := service.Respond(ctx, history, documentContext)
	if err != nil {
		log.Error().Err(err).Msg("Chat request failed")
		return err
	}

	fmt.Println(reply)
	return nil
}
