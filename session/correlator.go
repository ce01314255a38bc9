package session

import (
	"context"
	"sync"
	"time"

	"github.com/aaronwong1989/gosmpp/codec"
	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm/logging"
)

// completionHook 在 future 完成前执行，可以改写最终错误
type completionHook func(resp smpp.Pdu, err error) error

type pendingRequest struct {
	seq         uint32
	commandId   uint32
	submittedAt time.Time
	deadline    time.Time
	windowed    bool
	hook        completionHook
	future      *Future
}

// correlator 未应答请求表，按 sequence_number 匹配应答
type correlator struct {
	mu      sync.Mutex
	seq     codec.Sequence32
	table   map[uint32]*pendingRequest
	window  chan struct{}
	closed  error
	done    <-chan struct{}
	metrics *metrics
	log     logging.Logger
}

func newCorrelator(seq codec.Sequence32, maxInFlight int, done <-chan struct{}, m *metrics, l logging.Logger) *correlator {
	return &correlator{
		seq:     seq,
		table:   make(map[uint32]*pendingRequest),
		window:  make(chan struct{}, maxInFlight), // 用通道控制未应答窗口
		done:    done,
		metrics: m,
		log:     l,
	}
}

// register 登记请求并分配 sequence_number；windowed 请求占用窗口，
// 窗口满时 failFast 直接返回 ErrWindowFull，否则等待空位
func (c *correlator) register(ctx context.Context, commandId uint32, timeout time.Duration, windowed, failFast bool, hook completionHook) (*pendingRequest, error) {
	if windowed {
		if failFast {
			select {
			case c.window <- struct{}{}:
			default:
				return nil, ErrWindowFull
			}
		} else {
			select {
			case c.window <- struct{}{}:
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.done:
				return nil, c.closedErr()
			}
		}
	}

	c.mu.Lock()
	if c.closed != nil {
		err := c.closed
		c.mu.Unlock()
		if windowed {
			<-c.window
		}
		return nil, err
	}
	seq, ok := c.nextSeq()
	if !ok {
		c.mu.Unlock()
		if windowed {
			<-c.window
		}
		return nil, ErrWindowFull
	}
	now := time.Now()
	p := &pendingRequest{
		seq:         seq,
		commandId:   commandId,
		submittedAt: now,
		deadline:    now.Add(timeout),
		windowed:    windowed,
		hook:        hook,
	}
	p.future = newFuture(p.seq, commandId, c.cancel)
	c.table[p.seq] = p
	c.metrics.pending.Inc()
	c.mu.Unlock()
	return p, nil
}

// nextSeq 跳过仍在等待应答的序号，调用方持有锁
func (c *correlator) nextSeq() (uint32, bool) {
	for i := 0; i <= len(c.table); i++ {
		seq := uint32(c.seq.NextVal())
		if _, busy := c.table[seq]; !busy {
			return seq, true
		}
	}
	return 0, false
}

func (c *correlator) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed != nil {
		return c.closed
	}
	return ErrClosed
}

// resolve 用应答完成对应请求，找不到时返回 false (无主应答)
func (c *correlator) resolve(resp smpp.Pdu) bool {
	h := resp.Header()
	c.mu.Lock()
	p, ok := c.table[h.SequenceNumber]
	if ok && h.CommandId != smpp.CmdGenericNack && h.CommandId != smpp.ResponseOf(p.commandId) {
		ok = false
	}
	if ok {
		c.remove(p)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	var err error
	if h.CommandId == smpp.CmdGenericNack || h.CommandStatus != smpp.StatusOK {
		err = &StatusError{CommandId: p.commandId, Status: h.CommandStatus}
	}
	c.metrics.latency.WithLabelValues(smpp.CommandName(p.commandId)).Observe(time.Since(p.submittedAt).Seconds())
	c.finish(p, resp, err)
	return true
}

// fail 以 err 完成指定请求
func (c *correlator) fail(seq uint32, err error) bool {
	c.mu.Lock()
	p, ok := c.table[seq]
	if ok {
		c.remove(p)
	}
	c.mu.Unlock()
	if ok {
		c.finish(p, nil, err)
	}
	return ok
}

func (c *correlator) cancel(seq uint32) {
	if c.fail(seq, ErrCanceled) {
		c.log.Debugf("[%-9s] request seq=%d canceled", "Cancel", seq)
	}
}

// expire 超时的请求以 ErrTimeout 完成
func (c *correlator) expire(now time.Time) int {
	var expired []*pendingRequest
	c.mu.Lock()
	for _, p := range c.table {
		if now.After(p.deadline) {
			expired = append(expired, p)
		}
	}
	for _, p := range expired {
		c.remove(p)
	}
	c.mu.Unlock()

	for _, p := range expired {
		c.log.Warnf("[%-9s] %s seq=%d timeout after %v", "Sweep", smpp.CommandName(p.commandId), p.seq, now.Sub(p.submittedAt))
		c.metrics.timeouts.Inc()
		c.finish(p, nil, ErrTimeout)
	}
	return len(expired)
}

// closeAll 连接关闭后所有请求以 cause 完成，之后不再接受登记
func (c *correlator) closeAll(cause error) {
	c.mu.Lock()
	if c.closed == nil {
		c.closed = cause
	}
	all := make([]*pendingRequest, 0, len(c.table))
	for _, p := range c.table {
		all = append(all, p)
	}
	for _, p := range all {
		c.remove(p)
	}
	c.mu.Unlock()

	for _, p := range all {
		c.finish(p, nil, cause)
	}
}

func (c *correlator) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.table)
}

// remove 调用方持有锁；共用注册表时 pending 是所有会话的总数，只做增减
func (c *correlator) remove(p *pendingRequest) {
	delete(c.table, p.seq)
	c.metrics.pending.Dec()
}

func (c *correlator) finish(p *pendingRequest, resp smpp.Pdu, err error) {
	if p.windowed {
		<-c.window
	}
	if p.hook != nil {
		err = p.hook(resp, err)
	}
	p.future.complete(resp, err)
}
