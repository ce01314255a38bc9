// Package yml_config 读取 yaml 配置文件
package yml_config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aaronwong1989/gosmpp/comm/logging"
)

// YmlConfig 配置访问接口，键支持用 "." 访问嵌套节点，如 "session.host"
type YmlConfig interface {
	Path() string
	Decode(v interface{}) error
	IsSet(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
}

type ymlConfig struct {
	path string
	raw  []byte
	data map[string]interface{}
}

// CreateYamlFactory 按名称查找并加载配置文件，查找顺序:
// 环境变量 SMPP_CONF_PATH (文件或目录)、./conf/<name>.yaml、./<name>.yaml
func CreateYamlFactory(name string) YmlConfig {
	conf, err := Load(locate(name))
	if err != nil {
		logging.Fatalf("[Conf     ] %v", err)
	}
	return conf
}

// Load 加载指定路径的配置文件
func Load(path string) (YmlConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	data := make(map[string]interface{})
	if err = yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	logging.Infof("[Conf     ] path=%s", path)
	return &ymlConfig{path: path, raw: raw, data: data}, nil
}

func locate(name string) string {
	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		name += ".yaml"
	}
	if env := os.Getenv("SMPP_CONF_PATH"); len(env) > 0 {
		if fi, err := os.Stat(env); err == nil && fi.IsDir() {
			return filepath.Join(env, name)
		}
		return env
	}
	candidate := filepath.Join("conf", name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}

func (c *ymlConfig) Path() string {
	return c.path
}

// Decode 将整个文件解析到结构体
func (c *ymlConfig) Decode(v interface{}) error {
	return yaml.Unmarshal(c.raw, v)
}

func (c *ymlConfig) lookup(key string) (interface{}, bool) {
	var node interface{} = c.data
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (c *ymlConfig) IsSet(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

func (c *ymlConfig) GetString(key string) string {
	v, ok := c.lookup(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (c *ymlConfig) GetInt(key string) int {
	v, ok := c.lookup(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

func (c *ymlConfig) GetBool(key string) bool {
	v, ok := c.lookup(key)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		r, _ := strconv.ParseBool(b)
		return r
	}
	return false
}

// GetDuration 支持 "10s" 形式的字符串，整数按毫秒处理
func (c *ymlConfig) GetDuration(key string) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		return 0
	}
	switch d := v.(type) {
	case int:
		return time.Duration(d) * time.Millisecond
	case string:
		r, _ := time.ParseDuration(d)
		return r
	}
	return 0
}
