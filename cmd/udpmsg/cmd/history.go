package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msgnet/udpmsg/internal/history"
)

var (
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recent messages from a chat history database",
		Run:   startHistory,
	}
	historyFlags = struct {
		DB    string
		Limit int
		Peer  string
	}{}
)

func init() {
	historyCmd.Flags().StringVar(&historyFlags.DB, "db", "", "the sqlite database the conversation was recorded in")
	historyCmd.Flags().IntVar(&historyFlags.Limit, "limit", 20, "the maximum amount of messages to show")
	historyCmd.Flags().StringVar(&historyFlags.Peer, "peer", "", "also report how many messages were exchanged with this peer")
	historyCmd.MarkFlagRequired("db")
	Root.AddCommand(historyCmd)
}

func startHistory(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	repo, err := history.Open(ctx, historyFlags.DB)
	if err != nil {
		exitWithError(err.Error())
		return
	}
	defer repo.Close()

	msgs, err := repo.Recent(ctx, historyFlags.Limit)
	if err != nil {
		exitWithError(err.Error())
		return
	}

	for _, msg := range msgs {
		arrow := "<-"
		if msg.Direction == history.DirectionOut {
			arrow = "->"
		}
		fmt.Printf("%s %s %s (%s): %s\n",
			msg.CreatedAt.Format("2006-01-02 15:04:05"), arrow, msg.User, msg.Peer, msg.Body)
	}

	if historyFlags.Peer != "" {
		n, err := repo.CountByPeer(ctx, historyFlags.Peer)
		if err != nil {
			exitWithError(err.Error())
			return
		}
		fmt.Printf("%d messages exchanged with %s\n", n, historyFlags.Peer)
	}
}
