package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm/yml_config"
)

const (
	WindowBlock    = "block"
	WindowFailFast = "fail-fast"
)

// Config 会话配置，零值字段由 WithDefaults 填充
type Config struct {
	Host                  string  `yaml:"host"`
	Port                  int     `yaml:"port"`
	ResponseTimeoutMs     int     `yaml:"response-timeout-ms"`
	EnquireLinkIntervalMs int     `yaml:"enquire-link-interval-ms"` // 小于 0 时关闭链路检测
	EnquireLinkTimeoutMs  int     `yaml:"enquire-link-timeout-ms"`
	MaxInFlight           int     `yaml:"max-in-flight"`
	MaxPduBytes           int     `yaml:"max-pdu-bytes"`
	WindowPolicy          string  `yaml:"window-policy"`
	ConnectTimeoutMs      int     `yaml:"connect-timeout-ms"`
	SubmitRate            float64 `yaml:"submit-rate"` // 每秒 submit_sm 上限，0 不限制
	HandlerPoolSize       int     `yaml:"handler-pool-size"`
	TLS                   bool    `yaml:"tls"`
	TLSSkipVerify         bool    `yaml:"tls-skip-verify"`
	SimulateMO            bool    `yaml:"simulate-mo"` // 允许客户端发送 deliver_sm，仅用于模拟测试

	SystemId   string `yaml:"system-id"`
	Password   string `yaml:"password"`
	SystemType string `yaml:"system-type"`
	BindMode   string `yaml:"bind-mode"`
}

// DefaultConfig 只有默认值的配置
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// LoadConfig 从 yaml 配置解析会话配置
func LoadConfig(yc yml_config.YmlConfig) (Config, error) {
	var cfg Config
	if err := yc.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", yc.Path(), err)
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

func (c Config) WithDefaults() Config {
	if c.ResponseTimeoutMs <= 0 {
		c.ResponseTimeoutMs = 10000
	}
	if c.EnquireLinkIntervalMs == 0 {
		c.EnquireLinkIntervalMs = 30000
	}
	if c.EnquireLinkTimeoutMs <= 0 {
		c.EnquireLinkTimeoutMs = c.ResponseTimeoutMs
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = 10
	}
	if c.MaxPduBytes <= 0 {
		c.MaxPduBytes = smpp.DefaultMaxPduBytes
	}
	if c.WindowPolicy == "" {
		c.WindowPolicy = WindowBlock
	}
	if c.ConnectTimeoutMs <= 0 {
		c.ConnectTimeoutMs = 5000
	}
	if c.HandlerPoolSize <= 0 {
		c.HandlerPoolSize = 64
	}
	return c
}

func (c Config) Validate() error {
	if c.WindowPolicy != WindowBlock && c.WindowPolicy != WindowFailFast {
		return fmt.Errorf("invalid window-policy %q", c.WindowPolicy)
	}
	if c.MaxPduBytes < smpp.HeadLength {
		return fmt.Errorf("invalid max-pdu-bytes %d", c.MaxPduBytes)
	}
	if c.SubmitRate < 0 {
		return fmt.Errorf("invalid submit-rate %v", c.SubmitRate)
	}
	if _, err := ParseBindMode(c.BindMode); err != nil {
		return err
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) ResponseTimeout() time.Duration {
	return time.Duration(c.ResponseTimeoutMs) * time.Millisecond
}

// EnquireLinkInterval 为 0 表示关闭链路检测
func (c Config) EnquireLinkInterval() time.Duration {
	if c.EnquireLinkIntervalMs < 0 {
		return 0
	}
	return time.Duration(c.EnquireLinkIntervalMs) * time.Millisecond
}

func (c Config) EnquireLinkTimeout() time.Duration {
	return time.Duration(c.EnquireLinkTimeoutMs) * time.Millisecond
}

func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

func (c Config) failFast() bool {
	return c.WindowPolicy == WindowFailFast
}

// Mode bind-mode 配置项，缺省为 transceiver
func (c Config) Mode() BindMode {
	m, err := ParseBindMode(c.BindMode)
	if err != nil {
		return Transceiver
	}
	return m
}

// Params 配置中的绑定参数
func (c Config) Params() BindParams {
	return BindParams{SystemId: c.SystemId, Password: c.Password, SystemType: c.SystemType}
}
