package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
)

// BindAsync 发送 bind 请求，OPEN -> BINDING。
// 应答成功进入对应的 BOUND 状态；被拒绝或超时时会话关闭。
// 与其他请求不同，取消 bind (Future.Cancel 或 Wait 的 ctx 结束) 也会关闭连接，
// 此时对端是否已完成绑定无法确定
func (s *Session) BindAsync(ctx context.Context, mode BindMode, params BindParams) (*Future, error) {
	commandId := mode.commandId()
	if commandId == 0 {
		return nil, fmt.Errorf("unknown bind mode %d", int(mode))
	}
	bind := smpp.NewBind(commandId, params.SystemId, params.Password)
	bind.SystemType = params.SystemType
	bind.AddrTon = params.AddrTon
	bind.AddrNpi = params.AddrNpi
	bind.AddressRange = params.AddressRange
	if err := validate(bind); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state != Open {
		st := s.state
		s.mu.Unlock()
		return nil, invalidState("bind", st)
	}
	s.state = Binding
	s.mu.Unlock()

	hook := func(resp smpp.Pdu, err error) error {
		if err == nil {
			s.mu.Lock()
			if s.state == Binding {
				s.state = mode.boundState()
			}
			if br, ok := resp.(*smpp.BindResp); ok {
				s.systemId = br.SystemId
			}
			state := s.state
			s.mu.Unlock()
			s.log.Infof("[%-9s] [%s] bound as %s to %s, state=%s", "Bind", s.id, params.SystemId, s.SystemId(), state)
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) {
			err = &BindRejectedError{Status: se.Status}
		}
		s.log.Errorf("[%-9s] [%s] bind %s failed: %v", "Bind", s.id, params.SystemId, err)
		s.shutdown(err)
		return err
	}
	s.log.Infof("[%-9s] [%s] binding as %s, mode=%s", "Bind", s.id, params.SystemId, mode)
	return s.request(ctx, bind, s.cfg.ResponseTimeout(), false, isBinding, hook)
}

// Bind 同步绑定
func (s *Session) Bind(ctx context.Context, mode BindMode, params BindParams) error {
	f, err := s.BindAsync(ctx, mode, params)
	if err != nil {
		return err
	}
	_, err = f.Wait(ctx)
	return err
}

// SubmitAsync 发送 submit_sm，仅 BOUND_TX 与 BOUND_TRX 允许
func (s *Session) SubmitAsync(ctx context.Context, sub *smpp.SubmitSm) (*Future, error) {
	if sub == nil || sub.MessageHeader == nil {
		return nil, errors.New("nil submit_sm")
	}
	sub.CommandId = smpp.CmdSubmitSm
	if err := validate(sub); err != nil {
		return nil, err
	}
	if st := s.State(); !st.CanTransmit() {
		return nil, invalidState("submit_sm", st)
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return s.request(ctx, sub, s.cfg.ResponseTimeout(), true, State.CanTransmit, nil)
}

// Submit 发送 submit_sm 并等待应答，返回 SMSC 分配的 message_id
func (s *Session) Submit(ctx context.Context, sub *smpp.SubmitSm) (string, error) {
	f, err := s.SubmitAsync(ctx, sub)
	if err != nil {
		return "", err
	}
	resp, err := f.Wait(ctx)
	if err != nil {
		return "", err
	}
	sr, ok := resp.(*smpp.SubmitSmResp)
	if !ok {
		return "", fmt.Errorf("unexpected response %s", resp)
	}
	return sr.MessageId, nil
}

// SubmitLong 超长内容拆分为多条 submit_sm 依次发送，返回各条的 message_id
func (s *Session) SubmitLong(ctx context.Context, sub *smpp.SubmitSm) ([]string, error) {
	parts := sub.Split()
	futures := make([]*Future, 0, len(parts))
	for _, part := range parts {
		f, err := s.SubmitAsync(ctx, part)
		if err != nil {
			for _, sent := range futures {
				sent.Cancel()
			}
			return nil, err
		}
		futures = append(futures, f)
	}
	ids := make([]string, 0, len(futures))
	var firstErr error
	for _, f := range futures {
		resp, err := f.Wait(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ids = append(ids, resp.(*smpp.SubmitSmResp).MessageId)
	}
	return ids, firstErr
}

// SimulateDeliver 由客户端发送 deliver_sm。
// 真实协议中 deliver_sm 由 SMSC 发起，这里只用于对接模拟 SMSC 的测试，需开启 simulate-mo
func (s *Session) SimulateDeliver(ctx context.Context, dly *smpp.DeliverSm) (*Future, error) {
	if !s.cfg.SimulateMO {
		return nil, fmt.Errorf("%w: deliver_sm from a client requires simulate-mo", ErrNotPermitted)
	}
	if dly == nil || dly.MessageHeader == nil {
		return nil, errors.New("nil deliver_sm")
	}
	dly.CommandId = smpp.CmdDeliverSm
	if err := validate(dly); err != nil {
		return nil, err
	}
	if st := s.State(); !st.CanTransmit() {
		return nil, invalidState("deliver_sm", st)
	}
	s.log.Warnf("[%-9s] [%s] sending simulated deliver_sm to %s", "Deliver", s.id, dly.DestinationAddr)
	return s.request(ctx, dly, s.cfg.ResponseTimeout(), true, State.CanTransmit, nil)
}

// UnbindAsync 发送 unbind，BOUND -> UNBINDING；收到应答或超时后关闭会话
func (s *Session) UnbindAsync(ctx context.Context) (*Future, error) {
	s.mu.Lock()
	if !s.state.IsBound() {
		st := s.state
		s.mu.Unlock()
		return nil, invalidState("unbind", st)
	}
	prev := s.state
	s.state = Unbinding
	s.mu.Unlock()

	hook := func(resp smpp.Pdu, err error) error {
		s.shutdown(ErrClosed)
		return err
	}
	s.log.Infof("[%-9s] [%s] %s -> %s", "Unbind", s.id, prev, Unbinding)
	return s.request(ctx, smpp.NewUnbind(), s.cfg.ResponseTimeout(), false, isUnbinding, hook)
}

// Unbind 同步解除绑定，返回时会话已关闭
func (s *Session) Unbind(ctx context.Context) error {
	f, err := s.UnbindAsync(ctx)
	if err != nil {
		return err
	}
	_, err = f.Wait(ctx)
	return err
}

func isBinding(st State) bool {
	return st == Binding
}

func isUnbinding(st State) bool {
	return st == Unbinding
}
