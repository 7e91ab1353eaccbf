package main

/*------------------------------------------------------------------
 *
 * Purpose:	Wire up the receive pipeline: load configuration, build
 *		the pools/queue/receiver/slot timer, attach GPIO or a null
 *		radio IC, start the consumer and output sinks, and serve
 *		metrics/DNS-SD/udev alongside it.
 *
 * Description:	Flag handling follows the teacher's appserver.go/
 *		kissutil.go use of spf13/pflag (-c names a YAML config file
 *		whose values override the built-in defaults).
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/vhf-ais/aisrx/src"
)

func main() {
	var configPath = pflag.StringP("config", "c", "", "Path to YAML config file.")
	var nullRadio = pflag.Bool("null-radio", false, "Use a no-op radio IC instead of SPI hardware (for smoke testing).")
	var help = pflag.BoolP("help", "h", false, "Display help text.")
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	var cfg, err = aisrx.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var logger = aisrx.NewLogger(cfg.Log.Level)

	var ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *nullRadio); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg aisrx.Config, logger *log.Logger, useNullRadio bool) error {
	var packets = aisrx.NewPacketBufferPool(cfg.Pools.PacketBuffers)
	var events = aisrx.NewEventPool(cfg.Pools.Events)
	var queue = aisrx.NewEventQueue(cfg.Pools.EventQueue)
	var mode = aisrx.NewRadioModeCell()
	var noise = aisrx.NewNoiseFloorDetector()
	var stats = &aisrx.Stats{}

	var radio aisrx.RadioIC
	if useNullRadio {
		radio = aisrx.NewNullRadioIC()
	} else {
		return fmt.Errorf("aisrx: SPI radio wiring requires board-specific GPIO/SPI device paths; pass --null-radio for a smoke test, or wire spi_radio.go's NewSPIRadioIC against your board in a custom main")
	}

	var receiver = aisrx.NewReceiver(aisrx.ReceiverConfig{
		Radio:   radio,
		Mode:    mode,
		Packets: packets,
		Events:  events,
		Queue:   queue,
		Noise:   noise,
		Stats:   stats,
		ChipID:  cfg.ChipID,
	})

	if err := receiver.Init(); err != nil {
		return fmt.Errorf("aisrx: init receiver: %w", err)
	}

	receiver.StartReceiving(cfg.Channel(), true)

	var slotTimer = aisrx.NewSlotTimer(receiver)

	var gpioDriver, gpioErr = aisrx.NewGPIODriver(aisrx.GPIOLines{
		Chip:         cfg.GPIO.Chip,
		BitClockLine: cfg.GPIO.BitClockLine,
		SlotTickLine: cfg.GPIO.SlotTickLine,
	}, receiver.OnBitClock, slotTimer.Tick)
	if gpioErr != nil {
		return fmt.Errorf("aisrx: start GPIO driver: %w", gpioErr)
	}
	defer gpioDriver.Close()

	var sinks []aisrx.Sink

	if cfg.Sinks.TCPAddr != "" {
		var tcp, tcpErr = aisrx.NewTCPSink(cfg.Sinks.TCPAddr, logger, ctx.Done())
		if tcpErr != nil {
			return tcpErr
		}
		sinks = append(sinks, tcp)
	}

	if cfg.Sinks.SerialDevice != "" {
		var serial, serErr = aisrx.NewSerialSink(cfg.Sinks.SerialDevice, cfg.Sinks.SerialBaud)
		if serErr != nil {
			return serErr
		}
		defer serial.Close()
		sinks = append(sinks, serial)
	}

	if cfg.Sinks.UsePTY {
		var pts, ptyErr = aisrx.NewPTYSink()
		if ptyErr != nil {
			return ptyErr
		}
		defer pts.Close()
		logger.Info("NMEA pty ready", "path", pts.Path())
		sinks = append(sinks, pts)
	}

	if cfg.Sinks.MQTTBroker != "" {
		var mqttSink, mqttErr = aisrx.NewMQTTSink(cfg.Sinks.MQTTBroker, cfg.Sinks.MQTTTopic, "aisrx-"+uuid.New().String())
		if mqttErr != nil {
			return mqttErr
		}
		defer mqttSink.Close()
		sinks = append(sinks, mqttSink)
	}

	var wsSink *aisrx.WSSink
	if cfg.Sinks.WSAddr != "" {
		wsSink = aisrx.NewWSSink(logger)
		sinks = append(sinks, wsSink)

		var mux = http.NewServeMux()
		mux.Handle("/", wsSink)
		var wsSrv = &http.Server{Addr: cfg.Sinks.WSAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second} //nolint:exhaustruct

		go func() {
			<-ctx.Done()
			var shutdownCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = wsSrv.Shutdown(shutdownCtx)
		}()

		go func() {
			if err := wsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("websocket server stopped", "err", err)
			}
		}()
	}

	var packetLog, logErr = aisrx.NewPacketLog(cfg.Log.PacketLogDir, cfg.Log.FileNamePattern, logger)
	if logErr != nil {
		return logErr
	}
	defer packetLog.Close()

	var consumer = aisrx.NewConsumer(queue, events, packets, stats, sinks...)
	consumer.SetPacketLog(packetLog)
	consumer.SetBadFCSHandler(func(pkt *aisrx.PacketBuffer) {
		logger.Debug("dropped bad-FCS frame", "channel", pkt.Channel, "size", pkt.Size(), "slot", pkt.Slot)
	})
	go consumer.Run(ctx.Done())

	if cfg.MetricsAddr != "" {
		var metrics = aisrx.NewMetricsServer(cfg.MetricsAddr)
		go func() { _ = metrics.Serve(ctx) }()
		go pollMetrics(ctx, metrics, stats, noise)
	}

	if cfg.DNSSDName != "" {
		var port, portErr = tcpPort(cfg.Sinks.TCPAddr)
		if portErr != nil {
			logger.Warn("DNS-SD announce skipped: no TCP sink to advertise", "err", portErr)
		} else if err := aisrx.AnnounceNMEAService(ctx, cfg.DNSSDName, port, logger); err != nil {
			return fmt.Errorf("aisrx: announce DNS-SD service: %w", err)
		}
	}

	if cfg.WatchUSBRadio {
		var watcher = aisrx.NewRadioDeviceWatcher(logger)
		if err := watcher.Run(ctx); err != nil {
			return fmt.Errorf("aisrx: start USB radio watcher: %w", err)
		}
	}

	<-ctx.Done()
	return nil
}

// pollMetrics copies Stats/NoiseFloorDetector into the exported Prometheus
// gauges once a second until ctx is canceled.
func pollMetrics(ctx context.Context, metrics *aisrx.MetricsServer, stats *aisrx.Stats, noise *aisrx.NoiseFloorDetector) {
	var ticker = time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.Poll(stats, noise)
		}
	}
}

// tcpPort extracts the numeric port DNS-SD should advertise from a TCP
// sink's listen address.
func tcpPort(addr string) (int, error) {
	var _, portStr, err = net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}
