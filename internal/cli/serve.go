package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/chatsanitizer"
	"github.com/njchilds90/chatsanitizer/internal/config"
	"github.com/njchilds90/chatsanitizer/internal/llm"
	"github.com/njchilds90/chatsanitizer/internal/logger"
	"github.com/njchilds90/chatsanitizer/internal/markdown"
	"github.com/njchilds90/chatsanitizer/internal/relay"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and the chat relay",
	Long: `Starts the HTTP server: the static site (when static_dir is set),
POST /api/chat and GET /healthz. Without OPENAI_API_KEY every chat
message is answered with the configured fallback reply.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newServer(cfg, logger.New(cfg.Env))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// newServer wires the relay from a validated configuration.
func newServer(cfg *config.Config, log *logger.Logger) (*relay.Server, error) {
	policy := chatsanitizer.ChatPolicy()
	policy.Origin = cfg.Origin
	sanitizer, err := chatsanitizer.New(policy)
	if err != nil {
		return nil, fmt.Errorf("creating sanitizer: %w", err)
	}

	provider := llm.NewProvider(cfg)
	log.Info("chat_provider", "provider", provider.Name(), "model", cfg.Model)

	chat := relay.NewChatHandler(provider, sanitizer, markdown.New(), relay.SettingsFromConfig(cfg), log)
	return relay.New(relay.ConfigFromConfig(cfg), log, chat), nil
}
