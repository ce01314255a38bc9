package smpp

import (
	"errors"
	"fmt"
)

var (
	// ErrNeedMoreData 缓冲区中还没有一个完整的报文
	ErrNeedMoreData = errors.New("smpp: need more data")
	// ErrMalformedPdu 报文格式错误
	ErrMalformedPdu = errors.New("smpp: malformed pdu")
)

// FramingError command_length 非法，无法确定报文边界，连接必须关闭
type FramingError struct {
	Length uint32
	Max    uint32
}

func (e *FramingError) Error() string {
	if e.Length < HeadLength {
		return fmt.Sprintf("smpp: framing error, command_length %d below header size", e.Length)
	}
	return fmt.Sprintf("smpp: framing error, command_length %d exceeds max %d", e.Length, e.Max)
}

func (e *FramingError) Is(target error) bool {
	return target == ErrMalformedPdu
}

// BodyError 报文边界有效但报文体不合法，可以跳过该报文继续解码
type BodyError struct {
	Header *MessageHeader
	Err    error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("smpp: malformed %s body (seq=%d): %v", CommandName(e.Header.CommandId), e.Header.SequenceNumber, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

func (e *BodyError) Is(target error) bool {
	return target == ErrMalformedPdu
}

// FieldError 字段校验失败
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("smpp: field %s: %s", e.Field, e.Reason)
}
