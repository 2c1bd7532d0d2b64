package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/netgallows/netgallows/internal/config"
	"github.com/netgallows/netgallows/internal/duel"
	"github.com/netgallows/netgallows/internal/game"
	"github.com/netgallows/netgallows/internal/history"
	"github.com/netgallows/netgallows/internal/peer"
	"github.com/netgallows/netgallows/internal/stats"
	"github.com/netgallows/netgallows/internal/tui/app"
)

type duelFlags struct {
	config    string
	port      int
	addr      string
	transport string
	word      string
}

func parseDuelFlags(role peer.Role, args []string) (duelFlags, error) {
	var f duelFlags
	fs := flag.NewFlagSet(string(role), flag.ContinueOnError)
	fs.StringVar(&f.config, "config", defaultConfigPath, "Path to config file")
	fs.IntVar(&f.port, "port", 0, "Override the duel port")
	if role == peer.Initiator {
		fs.StringVar(&f.addr, "addr", "", "Override the listen address")
	} else {
		fs.StringVar(&f.addr, "addr", "", "Host to connect to")
	}
	fs.StringVar(&f.transport, "transport", "", "tcp or websocket")
	fs.StringVar(&f.word, "word", "", "Play this word instead of a random one")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 && f.addr == "" && role == peer.Responder {
		f.addr = fs.Arg(0)
	}
	return f, nil
}

func (f duelFlags) apply(role peer.Role, cfg *config.Config) {
	if f.port > 0 {
		cfg.Network.Port = f.port
	}
	if f.transport != "" {
		cfg.Network.Transport = f.transport
	}
	if f.addr != "" {
		if role == peer.Initiator {
			cfg.Network.ListenHost = f.addr
		} else {
			cfg.Network.PeerHost = f.addr
		}
	}
}

func runDuel(role peer.Role, args []string) error {
	flags, err := parseDuelFlags(role, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	flags.apply(role, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	// A bad -word is a local usage error; reject it before a peer is waiting.
	word := game.PickWord(cfg.Game.Words, nil)
	if flags.word != "" {
		if word, err = game.NormalizeWord(flags.word); err != nil {
			return fmt.Errorf("-word: %w", err)
		}
	}

	level, _ := cfg.LogLevel()
	logger, closeLog, err := newLogger(cfg.Log, level)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Signals only abort the connection setup. Once the board is up the UI
	// owns ctrl+c and turns it into a forfeit.
	setupCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ch, err := establish(setupCtx, role, cfg.Network, logger)
	stopSignals()
	if err != nil {
		return err
	}
	defer ch.Close()

	session, err := game.NewSession(word, cfg.Game.MaxWrongGuesses)
	if err != nil {
		return err
	}

	statsStore := stats.NewStore(cfg.Store.Dir, string(role))
	record, err := statsStore.Load()
	if err != nil {
		logger.Warn("stats unavailable", "error", err)
		record = &stats.Record{}
	}

	bridge := app.NewBridge()
	agent := duel.New(ch, bridge, session,
		duel.WithLogger(logger.With("role", string(role))),
		duel.WithObserver(bridge.Observe),
	)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	runErr := make(chan error, 1)
	go func() { runErr <- agent.Run(runCtx) }()

	model := app.New(session, agent, bridge, app.Options{
		Role:        string(role),
		Peer:        ch.RemoteAddr(),
		Transport:   cfg.Network.Transport,
		Tick:        cfg.TickInterval(),
		SettleDelay: cfg.Display.SettleDelay,
		Hold:        cfg.Display.Hold,
		Wins:        record.Wins,
		Losses:      record.Losses,
		Streak:      record.CurrentStreak,
	})

	logger.Info("duel started", "peer", ch.RemoteAddr(), "word_len", len(word))
	termCtx, stopTerm := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stopTerm()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(termCtx))
	_, uiErr := p.Run()
	bridge.Close()

	// Leaving the board any other way than the end-of-game sequence is a
	// forfeit.
	if agent.Active() {
		if err := agent.Forfeit(); err != nil {
			logger.Warn("forfeit not delivered", "error", err)
		}
	}
	agent.Close()
	cancelRun()
	<-runErr

	res, _ := agent.Result()
	saveResult(logger, cfg, statsStore, role, session, ch.RemoteAddr(), res)
	printResult(res, session.Word())

	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return fmt.Errorf("ui: %w", uiErr)
	}
	return res.Err
}

func establish(ctx context.Context, role peer.Role, cfg config.NetworkConfig, logger *slog.Logger) (peer.Channel, error) {
	if role == peer.Responder {
		fmt.Fprintf(os.Stderr, "Connecting to %s (%s)...\n", cfg.PeerAddr(), cfg.Transport)
		return peer.Dial(ctx, cfg, logger)
	}

	l, err := peer.Announce(cfg, logger)
	if err != nil {
		return nil, err
	}
	port := cfg.Port
	if tcp, ok := l.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	fmt.Fprintf(os.Stderr, "Waiting for an opponent on port %d (%s)...\n", port, cfg.Transport)
	return l.Accept(ctx)
}

func saveResult(logger *slog.Logger, cfg *config.Config, store *stats.Store, role peer.Role, s *game.Session, remote string, res duel.Result) {
	failed := res.Err != nil
	if _, err := store.Update(func(r *stats.Record) {
		if failed {
			r.ApplyFailure()
		} else {
			r.Apply(res.Reason)
		}
	}); err != nil {
		logger.Warn("saving stats failed", "error", err)
	}

	db, err := history.Open(filepath.Join(store.Dir(), history.FileName))
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m := &history.Match{
		Role:         string(role),
		Transport:    cfg.Network.Transport,
		Word:         s.Word(),
		Outcome:      res.Outcome,
		Reason:       res.Reason,
		Failed:       failed,
		WrongGuesses: s.Snapshot().Wrong,
		Peer:         remote,
	}
	if err := db.Record(ctx, m); err != nil {
		logger.Warn("recording match failed", "error", err)
		return
	}
	logger.Info("match recorded", "id", m.ID)
}

func printResult(res duel.Result, word string) {
	if res.Err != nil {
		fmt.Printf("Connection lost. The word was %s.\n", word)
		return
	}
	fmt.Printf("%s The word was %s.\n", res.Outcome.Banner(), word)
}
