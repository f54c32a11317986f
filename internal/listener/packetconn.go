package listener

import (
	"net"
	"time"
)

// packetConnAdapter presents a net.PacketConn as a net.Conn bound to a single
// peer address, so the duplex send/recv workers (written against net.Conn)
// work unmodified for UDP. The server has no accept() for datagrams, so the
// peer address is learned from the first inbound packet and held fixed for
// the adapter's lifetime — one UDP "connection" per remote address.
type packetConnAdapter struct {
	pc     net.PacketConn
	remote net.Addr
	primed []byte // first datagram's payload, already consumed off the wire by the caller
}

func newPacketConnAdapter(pc net.PacketConn, remote net.Addr) *packetConnAdapter {
	return &packetConnAdapter{pc: pc, remote: remote}
}

// prime hands the adapter a datagram payload the caller already read (e.g.
// the one used to learn remote), to be returned by the first Read call.
func (a *packetConnAdapter) prime(data []byte) {
	a.primed = append([]byte(nil), data...)
}

func (a *packetConnAdapter) Read(b []byte) (int, error) {
	if a.primed != nil {
		n := copy(b, a.primed)
		if n < len(a.primed) {
			a.primed = a.primed[n:]
		} else {
			a.primed = nil
		}
		return n, nil
	}
	for {
		n, from, err := a.pc.ReadFrom(b)
		if err != nil {
			return n, err
		}
		if from.String() != a.remote.String() {
			continue // datagram from a different peer; not this adapter's connection
		}
		return n, nil
	}
}

func (a *packetConnAdapter) Write(b []byte) (int, error) {
	return a.pc.WriteTo(b, a.remote)
}

// Close is a no-op: the underlying PacketConn is shared across successive
// peers and is owned by the listener, which closes it in OnExit.
func (a *packetConnAdapter) Close() error                       { return nil }
func (a *packetConnAdapter) LocalAddr() net.Addr                { return a.pc.LocalAddr() }
func (a *packetConnAdapter) RemoteAddr() net.Addr                { return a.remote }
func (a *packetConnAdapter) SetDeadline(t time.Time) error       { return a.pc.SetDeadline(t) }
func (a *packetConnAdapter) SetReadDeadline(t time.Time) error   { return a.pc.SetReadDeadline(t) }
func (a *packetConnAdapter) SetWriteDeadline(t time.Time) error  { return a.pc.SetWriteDeadline(t) }
