package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/config"
	"github.com/linskybing/taskflow/internal/domain/event"
	"github.com/linskybing/taskflow/internal/logger"
	"github.com/linskybing/taskflow/internal/metrics"
	"github.com/linskybing/taskflow/internal/remote"
	"github.com/linskybing/taskflow/internal/tui"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const feedRetryDelay = 5 * time.Second

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "board:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadBoardConfig(os.Args[1:])
	if err != nil {
		return err
	}

	// The terminal belongs to the board, so logs only go to a file.
	log := logger.Nop()
	if cfg.LogFile != "" {
		log = logger.New(logger.Config{Level: cfg.LogLevel, Filename: cfg.LogFile})
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	clientID := uuid.NewString()
	client := remote.New(remote.Config{
		BaseURL:  cfg.Server,
		Timeout:  cfg.Timeout,
		ClientID: clientID,
	})
	b := board.New(client, board.Options{
		ActivationDistance: cfg.ActivationDistance,
		Actor:              cfg.Actor,
		ClientID:           clientID,
		Log:                log,
	})

	model := tui.New(ctx, b, tui.Options{Scope: cfg.Scope(), Log: log})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	go client.Follow(ctx, feedRetryDelay, feed{program: program, log: log})

	log.Infow("board started", "server", cfg.Server, "client_id", clientID, "project", cfg.Project)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// feed forwards change feed activity into the running program.
type feed struct {
	program *tea.Program
	log     *zap.SugaredLogger
}

func (f feed) Connected() { f.program.Send(tui.FeedConnected()) }

func (f feed) Event(e event.ChangeEvent) { f.program.Send(tui.RemoteEvent(e)) }

func (f feed) Dropped(err error) {
	f.log.Warnw("change feed disconnected", "error", err)
	f.program.Send(tui.FeedError(err))
}

func serveMetrics(ctx context.Context, addr string, log *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	log.Infow("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("metrics server failed", "error", err)
	}
}
