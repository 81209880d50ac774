package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zhubert/pdfqa/internal/conversation"
	"github.com/zhubert/pdfqa/internal/logger"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"ls"},
	Short:   "List your conversations",
	RunE:    runConversations,
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
}

func runConversations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if !cfg.IsLoggedIn() {
		return errNotLoggedIn
	}
	defer logger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.GetTimeout())
	defer cancel()

	convs, err := newClient(cfg).FetchConversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch conversations: %w", err)
	}
	printConversations(cmd.OutOrStdout(), convs)
	return nil
}

func printConversations(w io.Writer, convs []conversation.Conversation) {
	if len(convs) == 0 {
		fmt.Fprintln(w, "No conversations yet.")
		return
	}
	for _, c := range convs {
		created := "-"
		if !c.Timestamp.IsZero() {
			created = c.Timestamp.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-12s  %s  %3d msgs  %s\n", c.ID, created, len(c.Messages), c.Title)
	}
}
