package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Expose the error counters spec.md §7 mandates ("the core
 *		never propagates errors; callers observe health only
 *		through counters") and the per-channel noise floor estimate
 *		over Prometheus.
 *
 * Description:	Not present in the teacher; grounded on
 *		prometheus/client_golang, one of the pack's domain
 *		dependencies for exactly this kind of counter/gauge
 *		exposition. Polls Stats/NoiseFloorDetector rather than
 *		having the hot path touch Prometheus types directly, so the
 *		ISR-priority code stays free of anything beyond
 *		sync/atomic.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes receive-pipeline health over HTTP in Prometheus
// exposition format.
type MetricsServer struct {
	srv *http.Server

	eventQueuePushFailures prometheus.Gauge
	eventQueuePopFailures  prometheus.Gauge
	packetPoolPopFailures  prometheus.Gauge
	noiseFloorDBFS         *prometheus.GaugeVec
}

// NewMetricsServer registers the collectors and binds an HTTP server (not
// yet started) at addr.
func NewMetricsServer(addr string) *MetricsServer {
	var m = &MetricsServer{
		eventQueuePushFailures: promauto.NewGauge(prometheus.GaugeOpts{ //nolint:exhaustruct
			Name: "aisrx_event_queue_push_failures_total",
			Help: "Count of EventQueue.Push calls that found the queue full.",
		}),
		eventQueuePopFailures: promauto.NewGauge(prometheus.GaugeOpts{ //nolint:exhaustruct
			Name: "aisrx_event_pool_acquire_failures_total",
			Help: "Count of EventPool.Acquire calls that found the pool empty.",
		}),
		packetPoolPopFailures: promauto.NewGauge(prometheus.GaugeOpts{ //nolint:exhaustruct
			Name: "aisrx_packet_pool_acquire_failures_total",
			Help: "Count of PacketBufferPool.Acquire calls that found the pool empty.",
		}),
		noiseFloorDBFS: promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:exhaustruct
			Name: "aisrx_noise_floor_rssi",
			Help: "Exponential moving average of RSSI samples per channel.",
		}, []string{"channel"}),
	}

	var mux = http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	m.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second} //nolint:exhaustruct

	return m
}

// Serve runs the HTTP server until ctx is canceled.
func (m *MetricsServer) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		var shutdownCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.srv.Shutdown(shutdownCtx)
	}()

	var err = m.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Poll copies the current Stats snapshot and noise floor estimates into the
// exported gauges. Call periodically (e.g. once a second) from a
// non-ISR-priority goroutine.
func (m *MetricsServer) Poll(stats *Stats, noise *NoiseFloorDetector) {
	var snap = stats.Snapshot()
	m.eventQueuePushFailures.Set(float64(snap.EventQueuePushFailures))
	m.eventQueuePopFailures.Set(float64(snap.EventQueuePopFailures))
	m.packetPoolPopFailures.Set(float64(snap.RXPacketPoolPopFailures))

	for _, ch := range []VHFChannel{ChannelA, ChannelB} {
		if est, ok := noise.Estimate(ch); ok {
			m.noiseFloorDBFS.WithLabelValues(ch.String()).Set(est)
		}
	}
}
