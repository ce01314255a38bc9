package session

import (
	"errors"
	"fmt"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
)

var (
	// ErrFraming 对端报文长度非法，连接已关闭
	ErrFraming = errors.New("smpp session: framing error")
	// ErrTimeout 请求在超时时间内未收到应答
	ErrTimeout = errors.New("smpp session: response timeout")
	// ErrWindowFull 未应答请求数达到窗口上限
	ErrWindowFull = errors.New("smpp session: window full")
	// ErrLinkDead 链路检测超时，连接已关闭
	ErrLinkDead = errors.New("smpp session: link dead")
	// ErrInvalidState 当前状态不允许该操作
	ErrInvalidState = errors.New("smpp session: invalid state")
	// ErrClosed 会话已关闭
	ErrClosed = errors.New("smpp session: closed")
	// ErrCanceled 请求被调用方取消
	ErrCanceled = errors.New("smpp session: canceled")
	// ErrNotPermitted 未开启模拟上行时发送 deliver_sm
	ErrNotPermitted = errors.New("smpp session: operation not permitted")
	// ErrPeerUnbind 对端发起解除绑定
	ErrPeerUnbind = errors.New("smpp session: unbound by peer")
)

// BindRejectedError SMSC 拒绝绑定，可更换凭据后重试
type BindRejectedError struct {
	Status uint32
}

func (e *BindRejectedError) Error() string {
	return fmt.Sprintf("smpp session: bind rejected, status=%s", smpp.StatusName(e.Status))
}

// StatusError 应答的 command_status 非 0，或收到 generic_nack
type StatusError struct {
	CommandId uint32
	Status    uint32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("smpp session: %s failed, status=%s", smpp.CommandName(e.CommandId), smpp.StatusName(e.Status))
}

// TransportError 读写失败，连接已关闭
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smpp session: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// invalidState 携带当前状态的 ErrInvalidState
func invalidState(op string, s State) error {
	return fmt.Errorf("%w: %s not allowed in %s", ErrInvalidState, op, s)
}
