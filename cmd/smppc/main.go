// smppc 绑定到 SMSC，发送一条短信并等待状态报告后解除绑定
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
	"github.com/aaronwong1989/gosmpp/comm"
	"github.com/aaronwong1989/gosmpp/comm/logging"
	"github.com/aaronwong1989/gosmpp/comm/yml_config"
	"github.com/aaronwong1989/gosmpp/session"
)

var log = logging.GetDefaultLogger()

func main() {
	var (
		conf    string
		src     string
		dst     string
		text    string
		report  bool
		wait    time.Duration
		monitor int
	)
	flag.StringVar(&conf, "conf", "smppc", "--conf smppc")
	flag.StringVar(&src, "src", "", "--src 441234")
	flag.StringVar(&dst, "dst", "", "--dst 449876")
	flag.StringVar(&text, "text", "hello", "--text hello")
	flag.BoolVar(&report, "report", false, "--report=true")
	flag.DurationVar(&wait, "wait", 30*time.Second, "--wait 30s")
	flag.IntVar(&monitor, "monitor", 0, "--monitor 9100")
	flag.Parse()
	defer logging.Cleanup()

	cfg, err := session.LoadConfig(yml_config.CreateYamlFactory(conf))
	if err != nil {
		log.Fatalf("[%-9s] %v", "Conf", err)
	}
	log.Infof("current pid is %s.", comm.SavePid("smppc.pid"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	receipts := make(chan *smpp.Receipt, 16)
	onDeliver := func(dly *smpp.DeliverSm) uint32 {
		rt, ok := dly.Receipt()
		if !ok {
			log.Infof("[%-9s] mo from %s: %s", "Deliver", dly.SourceAddr, dly.Text())
			return smpp.StatusOK
		}
		select {
		case receipts <- rt:
		default:
			// 通道已满，只记录
			log.Infof("[%-9s] %s", "Report", rt)
		}
		return smpp.StatusOK
	}

	s, err := session.Dial(ctx, cfg, cfg.Mode(), cfg.Params(), session.WithDeliverHandler(onDeliver))
	if err != nil {
		log.Fatalf("[%-9s] %s: %v", "Bind", cfg.Addr(), err)
	}
	if monitor > 0 {
		comm.StartMonitor(monitor, s.Registry())
	}

	if len(dst) > 0 && s.State().CanTransmit() {
		sub := smpp.NewSubmitSm(src, dst, text)
		if report {
			sub.RegisteredDelivery = smpp.RegisteredDeliveryYes
		}
		ids, err := s.SubmitLong(ctx, sub)
		if err != nil {
			log.Errorf("[%-9s] %v", "Submit", err)
		}
		log.Infof("[%-9s] %s -> %s, message ids %v", "Submit", src, dst, ids)
		if report && len(ids) > 0 {
			awaitReceipts(ctx, s, receipts, ids, wait)
		}
	}

	uctx, cancel := context.WithTimeout(context.Background(), cfg.ResponseTimeout())
	defer cancel()
	if err = s.Unbind(uctx); err != nil {
		log.Warnf("[%-9s] %v", "Unbind", err)
		_ = s.Close()
	}
}

// awaitReceipts 等待每个 message_id 的状态报告，超时或会话关闭时返回
func awaitReceipts(ctx context.Context, s *session.Session, receipts <-chan *smpp.Receipt, ids []string, wait time.Duration) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	timeout := time.After(wait)
	for len(want) > 0 {
		select {
		case rt := <-receipts:
			log.Infof("[%-9s] %s", "Report", rt)
			delete(want, rt.Id)
		case <-timeout:
			log.Warnf("[%-9s] %d report(s) not received in %v", "Report", len(want), wait)
			return
		case <-s.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}
