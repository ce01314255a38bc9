package session

import (
	"context"
	"errors"
	"time"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
)

// keepAliveLoop 入站空闲达到 enquire-link-interval 时发送一个 enquire_link，
// 在 enquire-link-timeout 内没有应答则判定链路失效并关闭会话
func (s *Session) keepAliveLoop() {
	defer s.wg.Done()
	interval := s.cfg.EnquireLinkInterval()
	if interval <= 0 {
		return
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-timer.C:
		}

		idle := time.Since(time.Unix(0, s.lastRecv.Load()))
		if idle < interval {
			timer.Reset(interval - idle)
			continue
		}
		f, err := s.enquireLink(context.Background())
		if err != nil {
			s.log.Warnf("[%-9s] [%s] enquire_link not sent: %v", "KeepAlive", s.id, err)
			if s.isDone() {
				return
			}
			timer.Reset(interval)
			continue
		}
		select {
		case <-s.done:
			return
		case <-f.Done():
		}
		if err = f.Err(); err != nil {
			s.log.Warnf("[%-9s] [%s] enquire_link failed: %v", "KeepAlive", s.id, err)
		}
		timer.Reset(interval)
	}
}

func (s *Session) enquireLink(ctx context.Context) (*Future, error) {
	hook := func(resp smpp.Pdu, err error) error {
		if errors.Is(err, ErrTimeout) {
			s.log.Errorf("[%-9s] [%s] enquire_link timeout, link dead", "KeepAlive", s.id)
			s.shutdown(ErrLinkDead)
			return ErrLinkDead
		}
		return err
	}
	return s.request(ctx, smpp.NewEnquireLink(), s.cfg.EnquireLinkTimeout(), false, nil, hook)
}

// EnquireLink 主动发送一次链路检测并等待应答
func (s *Session) EnquireLink(ctx context.Context) error {
	if st := s.State(); st == Closed {
		return invalidState("enquire_link", st)
	}
	f, err := s.enquireLink(ctx)
	if err != nil {
		return err
	}
	_, err = f.Wait(ctx)
	return err
}

// sweepLoop 定期清理超时的请求
func (s *Session) sweepLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(sweepInterval(s.cfg.ResponseTimeout(), s.cfg.EnquireLinkTimeout()))
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.corr.expire(now)
		}
	}
}

// sweepInterval 取较短超时的 1/10，限制在 [10ms, 1s]
func sweepInterval(timeouts ...time.Duration) time.Duration {
	d := time.Second
	for _, t := range timeouts {
		if t/10 < d {
			d = t / 10
		}
	}
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return d
}
