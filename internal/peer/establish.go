package peer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/netgallows/netgallows/internal/config"
)

var errPeerTaken = errors.New("a peer is already connected")

// Listener is a bound initiator endpoint waiting for its one peer.
type Listener struct {
	cfg config.NetworkConfig
	ln  net.Listener
	log *slog.Logger

	// websocket transport only
	srv      *http.Server
	incoming chan *websocket.Conn
	served   chan error
	claimed  sync.Once
}

// Announce binds the initiator's address. The port is reserved before any
// peer can connect, so a responder may dial as soon as Announce returns.
func Announce(cfg config.NetworkConfig, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	addr := cfg.ListenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &SetupError{Role: Initiator, Addr: addr, Err: err}
	}

	l := &Listener{cfg: cfg, ln: ln, log: logger}
	if cfg.Transport == config.TransportWebSocket {
		l.startWebSocket()
	}
	logger.Info("waiting for peer", "addr", ln.Addr().String(), "transport", cfg.Transport)
	return l, nil
}

// Addr is the bound address; useful when the configured port was 0.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept blocks until exactly one peer connects, then stops listening.
// Cancelling ctx aborts the wait.
func (l *Listener) Accept(ctx context.Context) (Channel, error) {
	defer l.Close()

	addr := l.ln.Addr().String()
	fail := func(err error) (Channel, error) {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &SetupError{Role: Initiator, Addr: addr, Err: err}
	}

	if l.srv != nil {
		select {
		case conn := <-l.incoming:
			l.log.Info("peer connected", "remote", conn.RemoteAddr().String(), "transport", config.TransportWebSocket)
			return newWSChannel(conn), nil
		case err := <-l.served:
			return fail(err)
		case <-ctx.Done():
			return fail(ctx.Err())
		}
	}

	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	conn, err := l.ln.Accept()
	if err != nil {
		return fail(err)
	}
	l.log.Info("peer connected", "remote", conn.RemoteAddr().String(), "transport", config.TransportTCP)
	return newTCPChannel(conn), nil
}

// Close stops listening. An accepted channel stays open.
func (l *Listener) Close() error {
	var err error
	if l.srv != nil {
		err = l.srv.Close()
	} else {
		err = l.ln.Close()
	}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (l *Listener) startWebSocket() {
	l.incoming = make(chan *websocket.Conn, 1)
	l.served = make(chan error, 1)

	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	mux := http.NewServeMux()
	mux.HandleFunc(l.cfg.Path, func(w http.ResponseWriter, r *http.Request) {
		first := false
		l.claimed.Do(func() { first = true })
		if !first {
			http.Error(w, errPeerTaken.Error(), http.StatusConflict)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			l.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			select {
			case l.served <- fmt.Errorf("upgrade: %w", err):
			default:
			}
			return
		}
		l.incoming <- conn
	})

	l.srv = &http.Server{Handler: mux}
	go func() {
		err := l.srv.Serve(l.ln)
		if !errors.Is(err, http.ErrServerClosed) {
			select {
			case l.served <- err:
			default:
			}
		}
	}()
}

// Listen announces and accepts in one step.
func Listen(ctx context.Context, cfg config.NetworkConfig, logger *slog.Logger) (Channel, error) {
	l, err := Announce(cfg, logger)
	if err != nil {
		return nil, err
	}
	return l.Accept(ctx)
}

// Dial connects the responder to the initiator. There is no retry.
func Dial(ctx context.Context, cfg config.NetworkConfig, logger *slog.Logger) (Channel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	addr := cfg.PeerAddr()

	if cfg.Transport == config.TransportWebSocket {
		u := url.URL{Scheme: "ws", Host: addr, Path: cfg.Path}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, &SetupError{Role: Responder, Addr: u.String(), Err: err}
		}
		logger.Info("connected to host", "remote", conn.RemoteAddr().String(), "transport", cfg.Transport)
		return newWSChannel(conn), nil
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &SetupError{Role: Responder, Addr: addr, Err: err}
	}
	logger.Info("connected to host", "remote", conn.RemoteAddr().String(), "transport", config.TransportTCP)
	return newTCPChannel(conn), nil
}
