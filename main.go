package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"golang.org/x/sync/errgroup"

	"github.com/arquen/warmind/agent"
	"github.com/arquen/warmind/ipc"
	"github.com/arquen/warmind/tactics"
)

const banner = `
██╗    ██╗ █████╗ ██████╗ ███╗   ███╗██╗███╗   ██╗██████╗
██║    ██║██╔══██╗██╔══██╗████╗ ████║██║████╗  ██║██╔══██╗
██║ █╗ ██║███████║██████╔╝██╔████╔██║██║██╔██╗ ██║██║  ██║
██║███╗██║██╔══██║██╔══██╗██║╚██╔╝██║██║██║╚██╗██║██║  ██║
╚███╔███╔╝██║  ██║██║  ██║██║ ╚═╝ ██║██║██║ ╚████║██████╔╝
 ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝

Tactical Decision Engine`

type config struct {
	SocketPath   string `env:"WARMIND_SOCKET" envDefault:"/tmp/warmind.sock"`
	LogLevel     string `env:"WARMIND_LOG_LEVEL" envDefault:"info"`
	DoctrineFile string `env:"WARMIND_DOCTRINE_FILE"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	profiles := tactics.DefaultProfiles()
	if cfg.DoctrineFile != "" {
		loaded, err := tactics.LoadProfiles(cfg.DoctrineFile)
		if err != nil {
			slog.Error("failed to load doctrine file", "path", cfg.DoctrineFile, "error", err)
			os.Exit(1)
		}
		profiles = loaded
		slog.Info("doctrine overrides loaded", "path", cfg.DoctrineFile)
	}
	named := make(map[string]tactics.Doctrine, len(profiles))
	for _, d := range profiles {
		named[d.Name] = d
	}

	slog.Info("starting warmind")

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		slog.Error("failed to clean up socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(cfg.SocketPath)

	slog.Info("listening on domain socket", "path", cfg.SocketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})
	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(conn, named)
		}
	})

	if err := g.Wait(); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("shutting down")
}

func handleConn(conn net.Conn, profiles map[string]tactics.Doctrine) {
	c := ipc.NewConnection(conn, nil)
	a := agent.New(c, profiles)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeDecide, a.HandleDecide)
	c.ReadLoop()
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
