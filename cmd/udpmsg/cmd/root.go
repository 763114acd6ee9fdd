package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/msgnet/udpmsg"
	"github.com/msgnet/udpmsg/codec"
	"github.com/msgnet/udpmsg/internal/history"
)

var (
	Root = &cobra.Command{
		Use:   "udpmsg",
		Short: "Exchange typed chat messages with a peer over UDP",
		Run:   startRoot,
	}
	rootFlags = struct {
		BindAddr    string
		Peer        string
		User        string
		Codec       string
		BufferLen   int
		ReadTimeout time.Duration
		DB          string
		LogLevel    string
	}{}
)

func init() {
	Root.Flags().StringVar(&rootFlags.BindAddr, "bind-addr", "0.0.0.0:40062", "the UDP network address to listen on")
	Root.Flags().StringVar(&rootFlags.Peer, "peer", "", "the UDP network address of the peer to chat with")
	Root.Flags().StringVar(&rootFlags.User, "user", "anonymous", "the display name sent with each message")
	Root.Flags().StringVar(&rootFlags.Codec, "codec", "json", "the wire codec to use: json, cbor or yaml")
	Root.Flags().IntVar(&rootFlags.BufferLen, "buffer-len", 2048, "the receive buffer capacity in bytes")
	Root.Flags().DurationVar(&rootFlags.ReadTimeout, "read-timeout", time.Second, "how long a blocking receive waits per read")
	Root.Flags().StringVar(&rootFlags.DB, "db", "", "the sqlite database to record the conversation in")
	Root.Flags().StringVar(&rootFlags.LogLevel, "log-level", "info", "the log level to use")
	Root.MarkFlagRequired("peer")
}

// chatMessage is the one message type the demo messenger exchanges. Both
// peers run the same binary, so the automatic wire id agrees on both ends.
type chatMessage struct {
	User string `json:"user" yaml:"user"`
	Body string `json:"body" yaml:"body"`
}

func startRoot(cmd *cobra.Command, args []string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(rootFlags.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad log level: %s\n", rootFlags.LogLevel)
		os.Exit(1)
		return
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))

	wireCodec, err := codec.ByName(rootFlags.Codec)
	if err != nil {
		logErrorAndExit(logger, "Unable to pick a codec", slog.Any("err", err))
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var repo *history.Repo
	if rootFlags.DB != "" {
		repo, err = history.Open(ctx, rootFlags.DB)
		if err != nil {
			logErrorAndExit(logger, "Unable to open history database", slog.Any("err", err))
			return
		}
		defer repo.Close()
	}

	mgr, err := udpmsg.Listen(wireCodec, udpmsg.Options{
		BindAddr:    rootFlags.BindAddr,
		BufferLen:   rootFlags.BufferLen,
		ReadTimeout: rootFlags.ReadTimeout,
		Logger:      logger,
	})
	if err != nil {
		logErrorAndExit(logger, "Unable to bind UDP socket", slog.Any("err", err))
		return
	}
	defer mgr.Stop()

	logger.Info("Listening",
		slog.String("addr", mgr.LocalAddr().String()),
		slog.String("peer", rootFlags.Peer),
		slog.String("codec", mgr.Codec().Name()))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			addr, msg, err := udpmsg.Get[chatMessage](mgr)
			if err != nil {
				if !errors.Is(err, udpmsg.ErrNotFound) {
					logger.Error("Unable to receive message", slog.Any("err", err))
				}
				time.Sleep(50 * time.Millisecond)
				continue
			}

			fmt.Printf("%s says: %s\n", msg.User, msg.Body)
			record(ctx, logger, repo, history.DirectionIn, addr.String(), &msg)
		}
	}()

	go func() {
		defer cancel()

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			body := strings.TrimSpace(scanner.Text())
			if body == "" {
				continue
			}

			msg := chatMessage{User: rootFlags.User, Body: body}
			if err := udpmsg.Send(mgr, msg, rootFlags.Peer); err != nil {
				logger.Error("Unable to send message",
					slog.String("peer", rootFlags.Peer),
					slog.Any("err", err))
				continue
			}
			record(ctx, logger, repo, history.DirectionOut, rootFlags.Peer, &msg)
		}
	}()

	<-ctx.Done()
	logger.Info("Bye!")
}

func record(ctx context.Context, logger *slog.Logger, repo *history.Repo, direction, peer string, msg *chatMessage) {
	if repo == nil {
		return
	}

	if _, err := repo.Add(ctx, &history.Message{
		Direction: direction,
		Peer:      peer,
		User:      msg.User,
		Body:      msg.Body,
	}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Unable to record message", slog.Any("err", err))
	}
}

func logErrorAndExit(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
