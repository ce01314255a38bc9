package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm"
	"github.com/aaronwong1989/gosmpp/comm/logging"
)

const readChunk = 4096

// readLoop 唯一的读协程：累积字节、按 command_length 切分报文并分发
func (s *Session) readLoop(t Transport) {
	defer s.wg.Done()
	chunk := make([]byte, readChunk)
	buf := make([]byte, 0, readChunk)
	for {
		n, err := t.Read(chunk)
		if n > 0 {
			s.lastRecv.Store(time.Now().UnixNano())
			buf = append(buf, chunk[:n]...)
			var fatal error
			if buf, fatal = s.drain(buf); fatal != nil {
				s.shutdown(fatal)
				return
			}
		}
		if err != nil {
			if s.isDone() {
				return
			}
			if errors.Is(err, io.EOF) {
				s.log.Warnf("[%-9s] [%s] connection closed by peer", "OnTraffic", s.id)
			}
			s.shutdown(&TransportError{Err: err})
			return
		}
	}
}

// drain 解出缓冲中所有完整报文，返回剩余字节；command_length 非法时返回致命错误
func (s *Session) drain(buf []byte) ([]byte, error) {
	off := 0
	for {
		pdu, n, err := smpp.Decode(buf[off:], uint32(s.cfg.MaxPduBytes))
		if errors.Is(err, smpp.ErrNeedMoreData) {
			break
		}
		var fe *smpp.FramingError
		if errors.As(err, &fe) {
			comm.LogHexTo(s.log, logging.WarnLevel, "<<<", buf[off:])
			s.log.Errorf("[%-9s] [%s] %v, closing", "OnTraffic", s.id, err)
			return nil, fmt.Errorf("%w: %v", ErrFraming, err)
		}
		frame := buf[off : off+n]
		off += n
		if err != nil {
			comm.LogHexTo(s.log, logging.WarnLevel, "<<<", frame)
			s.malformed(err)
			continue
		}
		comm.LogHexTo(s.log, logging.DebugLevel, "<<<", frame)
		s.dispatch(pdu)
	}
	// 剩余的半个报文移到缓冲头部
	rest := copy(buf, buf[off:])
	return buf[:rest], nil
}

// malformed 报文边界有效但报文体非法：应答报文使对应请求失败，请求报文回复 generic_nack
func (s *Session) malformed(err error) {
	var be *smpp.BodyError
	if !errors.As(err, &be) {
		s.log.Errorf("[%-9s] [%s] decode error: %v", "OnTraffic", s.id, err)
		return
	}
	h := be.Header
	s.metrics.onReceived(h.CommandId)
	s.log.Warnf("[%-9s] [%s] <<< %v", "OnTraffic", s.id, err)
	if smpp.IsResponse(h.CommandId) {
		s.corr.fail(h.SequenceNumber, err)
		return
	}
	s.reply(smpp.NewGenericNack(smpp.StatusInvCmdLen, h.SequenceNumber))
}

// dispatch 应答交给 correlator，请求按当前状态处理
func (s *Session) dispatch(pdu smpp.Pdu) {
	h := pdu.Header()
	s.metrics.onReceived(h.CommandId)
	s.log.Debugf("[%-9s] [%s] <<< %s", "OnTraffic", s.id, pdu)

	if smpp.IsResponse(h.CommandId) {
		if !s.corr.resolve(pdu) {
			s.log.Warnf("[%-9s] [%s] stray response %s discarded", "OnTraffic", s.id, h)
		}
		return
	}

	state := s.State()
	switch p := pdu.(type) {
	case *smpp.EnquireLink:
		s.respond(p, smpp.StatusOK)
	case *smpp.Unbind:
		if state == Open {
			s.log.Warnf("[%-9s] [%s] unbind received in %s, ignored", "OnTraffic", s.id, state)
			return
		}
		s.log.Infof("[%-9s] [%s] peer requested unbind in %s", "Unbind", s.id, state)
		s.respond(p, smpp.StatusOK)
		s.shutdown(ErrPeerUnbind)
	case *smpp.DeliverSm:
		switch {
		case state.CanReceive():
			s.deliver(p)
		case state.IsBound() || state == Unbinding:
			s.respond(p, smpp.StatusInvBndSts)
		default:
			s.log.Warnf("[%-9s] [%s] deliver_sm received in %s, ignored", "OnTraffic", s.id, state)
		}
	default:
		if state.IsBound() {
			s.reply(smpp.NewGenericNack(smpp.StatusInvCmdId, h.SequenceNumber))
			return
		}
		s.log.Warnf("[%-9s] [%s] %s received in %s, ignored", "OnTraffic", s.id, smpp.CommandName(h.CommandId), state)
	}
}

// deliver 在协程池中执行处理函数，读协程不等待用户代码
func (s *Session) deliver(dly *smpp.DeliverSm) {
	s.mu.Lock()
	handler := s.onDeliver
	s.mu.Unlock()

	err := s.pool.Submit(func() {
		status := smpp.StatusOK
		if handler != nil {
			status = s.invoke(handler, dly)
		}
		s.respond(dly, status)
	})
	if err != nil {
		s.log.Warnf("[%-9s] [%s] handler pool: %v, seq=%d", "Deliver", s.id, err, dly.SequenceNumber)
		s.respond(dly, smpp.StatusXTAppn)
	}
}

func (s *Session) invoke(handler DeliverHandler, dly *smpp.DeliverSm) (status uint32) {
	defer func() {
		if e := recover(); e != nil {
			s.log.Errorf("[%-9s] [%s] handler panic: %v", "Deliver", s.id, e)
			status = smpp.StatusXTAppn
		}
	}()
	return handler(dly)
}
