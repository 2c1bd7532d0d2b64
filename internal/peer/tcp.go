package peer

import (
	"net"
	"sync"

	"github.com/netgallows/netgallows/internal/protocol"
)

// tcpChannel speaks the raw stream format: each Receive is one read of up to
// PayloadSize bytes, the remainder left zeroed.
type tcpChannel struct {
	conn net.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newTCPChannel(conn net.Conn) *tcpChannel {
	return &tcpChannel{conn: conn}
}

func (c *tcpChannel) Send(p protocol.Payload) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write(p[:])
	return err
}

func (c *tcpChannel) Receive() (protocol.Payload, error) {
	var p protocol.Payload
	for {
		n, err := c.conn.Read(p[:])
		if n > 0 {
			// A trailing error resurfaces on the next read.
			return p, nil
		}
		if err != nil {
			return protocol.Payload{}, err
		}
	}
}

func (c *tcpChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *tcpChannel) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
