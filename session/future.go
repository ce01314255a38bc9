package session

import (
	"context"
	"sync"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
)

// Future 一个已发出请求的结果，只会完成一次
type Future struct {
	seq       uint32
	commandId uint32
	done      chan struct{}
	once      sync.Once
	resp      smpp.Pdu
	err       error
	cancel    func(seq uint32)
}

func newFuture(seq, commandId uint32, cancel func(uint32)) *Future {
	return &Future{seq: seq, commandId: commandId, done: make(chan struct{}), cancel: cancel}
}

// Sequence 请求的 sequence_number
func (f *Future) Sequence() uint32 {
	return f.seq
}

func (f *Future) CommandId() uint32 {
	return f.commandId
}

// Done 完成时关闭
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Response 应答报文，未完成或无应答时为 nil
func (f *Future) Response() smpp.Pdu {
	select {
	case <-f.done:
		return f.resp
	default:
		return nil
	}
}

// Err 未完成时为 nil
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait 等待完成；ctx 结束时取消请求，之后到达的应答按无主应答丢弃
func (f *Future) Wait(ctx context.Context) (smpp.Pdu, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		f.Cancel()
		<-f.done
	}
	return f.resp, f.err
}

// Cancel 移出未应答表并以 ErrCanceled 完成，已完成时无影响。
// 一般不影响连接，bind 请求例外：取消 bind 会关闭会话
func (f *Future) Cancel() {
	if f.cancel != nil {
		f.cancel(f.seq)
	}
}

func (f *Future) complete(resp smpp.Pdu, err error) bool {
	completed := false
	f.once.Do(func() {
		f.resp, f.err = resp, err
		close(f.done)
		completed = true
	})
	return completed
}
