// Package session SMPP v3.4 客户端会话：状态机、请求应答匹配与链路检测。
//
// 一个 Session 对应一条连接，关闭后不可重用：
//
//	s := session.New(cfg)
//	if err := s.Connect(ctx); err != nil { ... }
//	if err := s.Bind(ctx, session.Transceiver, cfg.Params()); err != nil { ... }
//	msgId, err := s.Submit(ctx, smpp.NewSubmitSm("441234", "449876", "hello"))
//	_ = s.Unbind(ctx)
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/aaronwong1989/gosmpp/codec"
	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm"
	"github.com/aaronwong1989/gosmpp/comm/logging"
)

var log = logging.GetDefaultLogger()

// DeliverHandler 处理收到的 deliver_sm，返回值作为 deliver_sm_resp 的 command_status
type DeliverHandler func(dly *smpp.DeliverSm) uint32

type Session struct {
	id       string
	cfg      Config
	log      logging.Logger
	dialer   Dialer
	registry *prometheus.Registry
	metrics  *metrics
	limiter  *rate.Limiter
	seq      codec.Sequence32

	mu        sync.Mutex
	state     State
	transport Transport
	systemId  string
	onDeliver DeliverHandler

	wmu      sync.Mutex // 单写，保证报文不交错
	corr     *correlator
	pool     *ants.Pool
	lastRecv atomic.Int64

	done  chan struct{}
	cause error
	wg    sync.WaitGroup
}

type Option func(s *Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dialer = d }
}

// WithRegistry 多个会话共用同一个指标注册表
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *Session) { s.registry = r }
}

// WithSequence 自定义 sequence_number 生成器
func WithSequence(seq codec.Sequence32) Option {
	return func(s *Session) { s.seq = seq }
}

// WithDeliverHandler 创建时设置 deliver_sm 处理函数，绑定成功后立即到达的报文也不会漏掉
func WithDeliverHandler(h DeliverHandler) Option {
	return func(s *Session) { s.onDeliver = h }
}

// New 创建处于 CLOSED 状态的会话
func New(cfg Config, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg.WithDefaults(),
		log:    log,
		dialer: NetDialer{},
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.seq == nil {
		s.seq = comm.NewCycleSequence(1, comm.MaxSequence)
	}
	if s.cfg.SubmitRate > 0 {
		burst := int(s.cfg.SubmitRate)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(s.cfg.SubmitRate), burst)
	}
	s.metrics = newMetrics(s.registry)
	s.corr = newCorrelator(s.seq, s.cfg.MaxInFlight, s.done, s.metrics, s.log)

	options := ants.Options{
		ExpiryDuration: time.Minute,
		Nonblocking:    true, // 池满时立即返回，由调用方应答 ESME_RX_T_APPN
		PreAlloc:       false,
		PanicHandler: func(e interface{}) {
			s.log.Errorf("[%-9s] handler panic: %v", "Deliver", e)
		},
	}
	s.pool, _ = ants.NewPool(s.cfg.HandlerPoolSize, ants.WithOptions(options))
	return s
}

// Dial 建立连接并绑定
func Dial(ctx context.Context, cfg Config, mode BindMode, params BindParams, opts ...Option) (*Session, error) {
	s := New(cfg, opts...)
	if err := s.Connect(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.Bind(ctx, mode, params); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SystemId 绑定应答中 SMSC 的 system_id
func (s *Session) SystemId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemId
}

// Pending 未应答的请求数
func (s *Session) Pending() int {
	return s.corr.size()
}

// Done 会话关闭时关闭
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err 会话关闭的原因，未关闭时为 nil
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// OnDeliver 设置 deliver_sm 处理函数，未设置时直接应答 ESME_ROK
func (s *Session) OnDeliver(h DeliverHandler) {
	s.mu.Lock()
	s.onDeliver = h
	s.mu.Unlock()
}

// Connect 通过 Dialer 建立连接，CLOSED -> OPEN
func (s *Session) Connect(ctx context.Context) error {
	if st := s.State(); st != Closed || s.isDone() {
		return s.openErr(st)
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout())
	defer cancel()
	t, err := s.dialer.Dial(ctx, s.cfg)
	if err != nil {
		s.log.Errorf("[%-9s] [%s] dial %s failed: %v", "Connect", s.id, s.cfg.Addr(), err)
		return &TransportError{Err: err}
	}
	if err = s.Open(t); err != nil {
		_ = t.Close()
		return err
	}
	return nil
}

// Open 使用已建立的 Transport，CLOSED -> OPEN，会话独占该 Transport
func (s *Session) Open(t Transport) error {
	s.mu.Lock()
	if s.state != Closed || s.isDone() {
		st := s.state
		s.mu.Unlock()
		return s.openErr(st)
	}
	s.state = Open
	s.transport = t
	s.lastRecv.Store(time.Now().UnixNano())
	s.wg.Add(3)
	s.mu.Unlock()

	go s.readLoop(t)
	go s.sweepLoop()
	go s.keepAliveLoop()
	s.log.Infof("[%-9s] [%s] session opened, state=%s", "Open", s.id, Open)
	return nil
}

func (s *Session) openErr(st State) error {
	if s.isDone() {
		return ErrClosed
	}
	return invalidState("open", st)
}

func (s *Session) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close 立即关闭连接，所有未应答请求以 ErrClosed 完成
func (s *Session) Close() error {
	s.shutdown(ErrClosed)
	s.wg.Wait()
	return nil
}

// shutdown 只生效一次：置 CLOSED、关闭 Transport、清空未应答表。
// 清空时的完成回调可能再次调用 shutdown，此时直接返回
func (s *Session) shutdown(cause error) {
	s.mu.Lock()
	if s.isDone() {
		s.mu.Unlock()
		return
	}
	prev := s.state
	s.state = Closed
	s.cause = cause
	t := s.transport
	close(s.done)
	s.mu.Unlock()

	if t != nil {
		_ = t.Close()
	}
	s.corr.closeAll(cause)
	if s.pool != nil {
		s.pool.Release()
	}
	if errors.Is(cause, ErrClosed) {
		s.log.Infof("[%-9s] [%s] %s -> %s", "Close", s.id, prev, Closed)
	} else {
		s.log.Warnf("[%-9s] [%s] %s -> %s, cause: %v", "Close", s.id, prev, Closed, cause)
	}
}

// send 单写发送报文，写失败时关闭会话。
// allowed 不为空时在写锁内检查当前状态，保证状态切换之后不会再写出被禁止的报文
func (s *Session) send(pdu smpp.Pdu, allowed func(State) bool) error {
	if s.isDone() {
		return s.closedErr()
	}
	frame := pdu.Encode()
	name := smpp.CommandName(pdu.Header().CommandId)

	s.wmu.Lock()
	s.mu.Lock()
	t, st := s.transport, s.state
	s.mu.Unlock()
	if t == nil || st == Closed {
		s.wmu.Unlock()
		if s.isDone() {
			return s.closedErr()
		}
		return invalidState(name, Closed)
	}
	if allowed != nil && !allowed(st) {
		s.wmu.Unlock()
		return invalidState(name, st)
	}
	if d, ok := t.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Now().Add(s.cfg.ResponseTimeout()))
	}
	_, err := t.Write(frame)
	s.wmu.Unlock()
	if err != nil {
		if s.isDone() {
			return s.closedErr()
		}
		terr := &TransportError{Err: err}
		s.log.Errorf("[%-9s] [%s] >>> %s write failed: %v", "OnTraffic", s.id, name, err)
		s.shutdown(terr)
		return terr
	}
	s.metrics.onSent(pdu.Header().CommandId)
	s.log.Debugf("[%-9s] [%s] >>> %s", "OnTraffic", s.id, pdu)
	comm.LogHexTo(s.log, logging.DebugLevel, ">>>", frame)
	return nil
}

func (s *Session) closedErr() error {
	if err := s.Err(); err != nil {
		return err
	}
	return ErrClosed
}

// request 登记并发送请求，返回等待应答的 Future。
// 等待窗口或限流期间状态可能已经改变，allowed 在发送前再次检查
func (s *Session) request(ctx context.Context, pdu smpp.Pdu, timeout time.Duration, windowed bool, allowed func(State) bool, hook completionHook) (*Future, error) {
	p, err := s.corr.register(ctx, pdu.Header().CommandId, timeout, windowed, s.cfg.failFast(), hook)
	if err != nil {
		return nil, err
	}
	pdu.Header().SequenceNumber = p.seq
	if err = s.send(pdu, allowed); err != nil {
		s.corr.fail(p.seq, err)
		return nil, err
	}
	return p.future, nil
}

// reply 应答对端请求，不占用窗口
func (s *Session) reply(resp codec.Codec) {
	pdu, ok := resp.(smpp.Pdu)
	if !ok {
		return
	}
	if err := s.send(pdu, nil); err != nil {
		s.log.Warnf("[%-9s] [%s] reply %s failed: %v", "OnTraffic", s.id, pdu, err)
	}
}

// respond 以 status 应答请求报文
func (s *Session) respond(req codec.RequestPdu, status uint32) {
	s.reply(req.ToResponse(status))
}

func validate(pdu interface{}) error {
	if v, ok := pdu.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid %T: %w", pdu, err)
		}
	}
	return nil
}
