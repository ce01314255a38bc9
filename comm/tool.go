package comm

import (
	"bufio"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/aaronwong1989/gosmpp/comm/logging"
)

var log = logging.GetDefaultLogger()

var udhiGroup uint32

// ToTPUDHISlices 拆分为长短信切片，每片带 6 字节 UDH 头 (05 00 03 ref total seq)
// 7bit 内容的拆分 pkgLen = 159 (153 个字符)
// UCS2 内容的拆分 pkgLen = 140 (67 个字符)
func ToTPUDHISlices(content []byte, pkgLen int) (rt [][]byte) {
	if len(content) <= pkgLen {
		return [][]byte{content}
	}

	headLen := 6
	bodyLen := pkgLen - headLen
	parts := len(content) / bodyLen
	tailLen := len(content) % bodyLen
	if tailLen != 0 {
		parts++
	} else {
		tailLen = bodyLen
	}
	// 分片消息组的标识，用于收集组装消息
	groupId := byte(atomic.AddUint32(&udhiGroup, 1))
	for i := 0; i < parts; i++ {
		size := bodyLen
		if i == parts-1 {
			// 最后一片
			size = tailLen
		}
		part := make([]byte, headLen+size)
		part[0], part[1], part[2] = 0x05, 0x00, 0x03
		part[3] = groupId
		part[4], part[5] = byte(parts), byte(i+1)
		copy(part[headLen:], content[bodyLen*i:bodyLen*i+size])
		rt = append(rt, part)
	}
	return rt
}

// Ucs2Encode Encode to UCS2.
func Ucs2Encode(s string) []byte {
	e := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	ucs, _, err := transform.Bytes(e.NewEncoder(), []byte(s))
	if err != nil {
		return nil
	}
	return ucs
}

// Ucs2Decode Decode from UCS2.
func Ucs2Decode(ucs2 []byte) string {
	e := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	bts, _, err := transform.Bytes(e.NewDecoder(), ucs2)
	if err != nil {
		return ""
	}
	return string(bts)
}

// LogHexTo 以十六进制输出报文
func LogHexTo(l logging.Logger, level logging.Level, model string, bts []byte) {
	msg := fmt.Sprintf("[OnTraffic] Hex %s: %x", model, bts)
	if level == logging.DebugLevel {
		l.Debugf("%s", msg)
	} else if level == logging.ErrorLevel {
		l.Errorf("%s", msg)
	} else if level == logging.WarnLevel {
		l.Warnf("%s", msg)
	} else {
		l.Infof("%s", msg)
	}
}

// SavePid 在程序执行的当前目录生成pid文件
func SavePid(f string) string {
	file, err := os.OpenFile(f, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Errorf("%v", err)
		return ""
	}
	pid := fmt.Sprintf("%d", os.Getpid())

	writer := bufio.NewWriter(file)
	_, _ = writer.WriteString(pid)
	defer func(file *os.File, writer *bufio.Writer) {
		_ = writer.Flush()
		_ = file.Close()
	}(file, writer)

	return pid
}

// StartMonitor 开启pprof与prometheus指标，监听 port 端口
func StartMonitor(port int, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	go func() {
		addr := strconv.Itoa(port)
		log.Infof("[Monitor  ] http://localhost:%s/debug/pprof/ , http://localhost:%s/metrics", addr, addr)
		if err := http.ListenAndServe(":"+addr, mux); err != nil {
			log.Infof("start monitor failed on %s", addr)
		}
	}()
}
