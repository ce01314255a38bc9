package session

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aaronwong1989/gosmpp/codec"
	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm/logging"
)

const waitPdu = 2 * time.Second

// fakeSMSC 测试用的对端，读写分别在独立协程中进行，避免 net.Pipe 双向阻塞
type fakeSMSC struct {
	conn net.Conn
	in   chan smpp.Pdu
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func startPeer(conn net.Conn) *fakeSMSC {
	p := &fakeSMSC{
		conn: conn,
		in:   make(chan smpp.Pdu, 128),
		out:  make(chan []byte, 128),
		done: make(chan struct{}),
	}
	go p.readLoop()
	go p.writeLoop()
	return p
}

func (p *fakeSMSC) readLoop() {
	defer close(p.in)
	chunk := make([]byte, 1024)
	var buf []byte
	for {
		n, err := p.conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		for {
			pdu, used, derr := smpp.Decode(buf, 0)
			if derr != nil {
				break
			}
			buf = buf[used:]
			p.in <- pdu
		}
		if err != nil {
			return
		}
	}
}

func (p *fakeSMSC) writeLoop() {
	for {
		select {
		case b := <-p.out:
			if _, err := p.conn.Write(b); err != nil {
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *fakeSMSC) send(pdu codec.Codec) {
	p.out <- pdu.Encode()
}

func (p *fakeSMSC) sendRaw(b []byte) {
	p.out <- b
}

// expect 等待下一个报文并检查 command_id
func (p *fakeSMSC) expect(t *testing.T, commandId uint32) smpp.Pdu {
	t.Helper()
	select {
	case pdu, ok := <-p.in:
		require.True(t, ok, "connection closed while waiting for %s", smpp.CommandName(commandId))
		require.Equal(t, smpp.CommandName(commandId), smpp.CommandName(pdu.Header().CommandId), "got %s", pdu)
		return pdu
	case <-time.After(waitPdu):
		require.FailNow(t, "timeout waiting for "+smpp.CommandName(commandId))
	}
	return nil
}

// expectNone 在 d 内没有收到任何报文
func (p *fakeSMSC) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case pdu, ok := <-p.in:
		if ok {
			require.FailNow(t, "unexpected pdu", "%s", pdu)
		}
	case <-time.After(d):
	}
}

// expectClosed 连接关闭前收到的报文
func (p *fakeSMSC) expectClosed(t *testing.T) []smpp.Pdu {
	t.Helper()
	var rest []smpp.Pdu
	timeout := time.After(waitPdu)
	for {
		select {
		case pdu, ok := <-p.in:
			if !ok {
				return rest
			}
			rest = append(rest, pdu)
		case <-timeout:
			require.FailNow(t, "connection still open")
		}
	}
}

func (p *fakeSMSC) close() {
	p.once.Do(func() {
		close(p.done)
		_ = p.conn.Close()
	})
}

func testConfig() Config {
	return Config{
		ResponseTimeoutMs:     2000,
		EnquireLinkIntervalMs: -1,
		MaxInFlight:           32,
	}
}

func newPair(t *testing.T, cfg Config, opts ...Option) (*Session, *fakeSMSC) {
	t.Helper()
	client, server := net.Pipe()
	opts = append([]Option{WithLogger(logging.NopLogger())}, opts...)
	s := New(cfg, opts...)
	require.NoError(t, s.Open(client))
	p := startPeer(server)
	t.Cleanup(func() {
		_ = s.Close()
		p.close()
	})
	return s, p
}

// bindWith 完成一次绑定握手
func bindWith(t *testing.T, s *Session, p *fakeSMSC, mode BindMode) {
	t.Helper()
	f, err := s.BindAsync(context.Background(), mode, BindParams{SystemId: "user1", Password: "pw"})
	require.NoError(t, err)
	assertState(t, s, Binding)
	req := p.expect(t, mode.commandId()).(*smpp.Bind)
	resp := req.ToResponse(smpp.StatusOK).(*smpp.BindResp)
	resp.SystemId = "FAKESMSC"
	p.send(resp)
	_, err = f.Wait(context.Background())
	require.NoError(t, err)
	assertState(t, s, mode.boundState())
}

func boundPair(t *testing.T, cfg Config, opts ...Option) (*Session, *fakeSMSC) {
	t.Helper()
	s, p := newPair(t, cfg, opts...)
	bindWith(t, s, p, Transceiver)
	return s, p
}

func assertState(t *testing.T, s *Session, want State) {
	t.Helper()
	require.Equal(t, want.String(), s.State().String())
}

// waitClosed 等待会话关闭
func waitClosed(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(waitPdu):
		require.FailNow(t, "session not closed")
	}
	assertState(t, s, Closed)
}
