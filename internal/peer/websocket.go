package peer

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/netgallows/netgallows/internal/protocol"
)

// closeTimeout bounds the close handshake write so an unresponsive peer
// cannot hold up shutdown.
const closeTimeout = time.Second

// wsChannel carries one payload per binary WebSocket message.
type wsChannel struct {
	conn   *websocket.Conn
	remote string

	writeMu   sync.Mutex // gorilla allows one concurrent writer
	closeOnce sync.Once
	closeErr  error
}

func newWSChannel(conn *websocket.Conn) *wsChannel {
	return &wsChannel{conn: conn, remote: conn.RemoteAddr().String()}
}

func (c *wsChannel) Send(p protocol.Payload) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, p[:])
}

func (c *wsChannel) Receive() (protocol.Payload, error) {
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return protocol.Payload{}, err
		}
		if mt != websocket.BinaryMessage && mt != websocket.TextMessage {
			continue
		}
		p, _ := protocol.PayloadFrom(data)
		return p, nil
	}
}

func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		// WriteControl may run alongside a Send stuck on a full socket; the
		// underlying Close then unblocks that Send.
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeTimeout))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *wsChannel) RemoteAddr() string {
	return c.remote
}

// checkOrigin accepts non-browser clients (no Origin header), same-host
// origins and loopback origins.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Host
	if host == r.Host {
		return true
	}

	hostname := parsed.Hostname()
	if hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1" {
		return true
	}
	return strings.EqualFold(hostname, hostOnly(r.Host))
}

func hostOnly(hostport string) string {
	if i := strings.LastIndex(hostport, ":"); i >= 0 && !strings.HasSuffix(hostport, "]") {
		return strings.Trim(hostport[:i], "[]")
	}
	return strings.Trim(hostport, "[]")
}
