package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chative-ordering/orderbot/internal/agent/graph"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const chatHelp = `Type a message to talk to the assistant.
  /tap <id> [label]  simulate a button or list selection (e.g. /tap add_1)
  /state             print the stored conversation state
  /reset             forget this conversation
  /help              show this help
  /quit              exit`

type chatFlags struct {
	user        string
	platform    string
	offline     bool
	metricsAddr string
	logFile     string
}

func newChatCmd() *cobra.Command {
	var f chatFlags
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.user, "user", "console-user", "user id of the conversation")
	cmd.Flags().StringVar(&f.platform, "platform", string(model.PlatformConsole), "platform of the conversation")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "keep state, menu and orders in memory instead of Redis and Postgres")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().StringVar(&f.logFile, "log-file", "orderbot.log", "write logs here so they do not interleave with the chat")
	return cmd
}

func runChat(ctx context.Context, f chatFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logOut, closeLog, err := openLog(f.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment(), Output: logOut})

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return fmt.Errorf("init terminal input: %w", err)
	}
	defer rl.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if f.metricsAddr != "" {
		srv := serveMetrics(f.metricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	eng, err := buildEngine(ctx, cfg, engineOptions{
		offline:  f.offline,
		console:  rl.Stdout(),
		registry: reg,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	s := &chatSession{
		runner: eng.runner,
		out:    rl.Stdout(),
		key:    model.ConversationKey{UserID: f.user, Platform: model.Platform(f.platform)},
	}
	fmt.Fprintf(s.out, "Chatting as %s on %s. /help for commands.\n", s.key.UserID, s.key.Platform)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := s.handleLine(ctx, line); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

type chatSession struct {
	runner graph.Runner
	out    io.Writer
	key    model.ConversationKey
}

// handleLine runs one REPL line and reports whether the user asked to quit.
func (s *chatSession) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s.send(ctx, model.InboundEvent{UserID: s.key.UserID, Platform: s.key.Platform, Text: line})
		return false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, chatHelp)
	case "/tap":
		cb, ok := parseTap(rest)
		if !ok {
			fmt.Fprintln(s.out, "usage: /tap <id> [label]")
			return false
		}
		s.send(ctx, model.InboundEvent{UserID: s.key.UserID, Platform: s.key.Platform, Callback: cb})
	case "/state":
		b, err := json.MarshalIndent(s.runner.State(ctx, s.key), "", "  ")
		if err != nil {
			fmt.Fprintln(s.out, "cannot print state:", err)
			return false
		}
		fmt.Fprintln(s.out, string(b))
	case "/reset":
		if err := s.runner.Reset(ctx, s.key); err != nil {
			fmt.Fprintln(s.out, "reset failed:", err)
			return false
		}
		fmt.Fprintln(s.out, "conversation cleared")
	default:
		fmt.Fprintf(s.out, "unknown command %s\n%s\n", cmd, chatHelp)
	}
	return false
}

func (s *chatSession) send(ctx context.Context, ev model.InboundEvent) {
	out, err := s.runner.Handle(ctx, ev)
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return
	}
	logx.Debug().
		Str("correlation_id", out.CorrelationID).
		Str("path", out.Path).
		Str("action", out.Action).
		Msg("chat turn")
}

// parseTap reads "<id> [label]". Ids starting with cat_ or add_ come from
// lists, everything else from buttons.
func parseTap(arg string) (*model.Callback, bool) {
	id, label, _ := strings.Cut(arg, " ")
	if id == "" {
		return nil, false
	}
	kind := model.CallbackButton
	if strings.HasPrefix(id, "cat_") || strings.HasPrefix(id, "add_") {
		kind = model.CallbackList
	}
	return &model.Callback{Kind: kind, ID: id, Label: strings.TrimSpace(label)}, true
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	logx.Info().Str("addr", addr).Msg("serving metrics")
	return srv
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
