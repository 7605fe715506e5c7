package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/chatsanitizer"
	"github.com/njchilds90/chatsanitizer/internal/markdown"
)

var (
	sanitizeOrigin   string
	sanitizeText     bool
	sanitizeMarkdown bool
)

func init() {
	sanitizeCmd.Flags().StringVar(&sanitizeOrigin, "origin", chatsanitizer.DefaultOrigin, "origin that relative links resolve against")
	sanitizeCmd.Flags().BoolVar(&sanitizeText, "text", false, "print the plain text content instead of HTML")
	sanitizeCmd.Flags().BoolVar(&sanitizeMarkdown, "markdown", false, "render the input as Markdown first")
	rootCmd.AddCommand(sanitizeCmd)
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [html...]",
	Short: "Sanitize HTML from arguments or stdin",
	Long: `Applies the chat reply policy to HTML given as arguments (joined with
spaces) or read from stdin, and prints the result.`,
	RunE: runSanitize,
}

func runSanitize(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) > 0 {
		input = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
	}

	if sanitizeMarkdown {
		rendered, err := markdown.New().Render(input)
		if err != nil {
			return err
		}
		input = rendered
	}

	var out string
	if sanitizeText {
		out = chatsanitizer.StripTags(input)
	} else {
		p := chatsanitizer.ChatPolicy()
		p.Origin = sanitizeOrigin
		s, err := chatsanitizer.New(p)
		if err != nil {
			return err
		}
		out = s.Sanitize(input)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(out))
	return nil
}
