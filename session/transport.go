package session

import (
	"context"
	"crypto/tls"
	"io"
	"net"
)

// Transport 有序可靠的双向字节流，TCP、TLS 或测试用的内存管道均可
// Read 可以只返回部分数据；Write 必须写完整个切片或返回错误
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Dialer 建立 Transport
type Dialer interface {
	Dial(ctx context.Context, cfg Config) (Transport, error)
}

// DialerFunc 函数形式的 Dialer
type DialerFunc func(ctx context.Context, cfg Config) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context, cfg Config) (Transport, error) {
	return f(ctx, cfg)
}

// NetDialer 按配置建立 TCP 或 TLS 连接
type NetDialer struct{}

func (NetDialer) Dial(ctx context.Context, cfg Config) (Transport, error) {
	nd := &net.Dialer{Timeout: cfg.ConnectTimeout()}
	if !cfg.TLS {
		conn, err := nd.DialContext(ctx, "tcp", cfg.Addr())
		if err != nil {
			return nil, err
		}
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		return conn, nil
	}
	td := &tls.Dialer{
		NetDialer: nd,
		Config: &tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: cfg.TLSSkipVerify,
			MinVersion:         tls.VersionTLS12,
		},
	}
	return td.DialContext(ctx, "tcp", cfg.Addr())
}
