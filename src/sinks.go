package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Output sinks the Consumer fans validated NMEA sentences
 *		out to.
 *
 * Description:	The teacher ships one TCP KISS server and one serial-port
 *		writer (serial_port.go); this generalizes to a small Sink
 *		interface (consumer.go) with five implementations: a
 *		fan-out TCP server for NMEA-over-TCP clients (the direct
 *		analogue of the teacher's KISS TCP server), a serial port
 *		writer ported from serial_port.go onto the same pkg/term
 *		dependency, a pty (creack/pty, for feeding desktop chart
 *		plotters that expect a local serial device; pty_sink.go), an
 *		MQTT publisher for shore-side aggregation, not present in the
 *		teacher but common in the rest of the retrieval pack, and a
 *		WebSocket broadcast server (ws_sink.go).
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"net"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/term"

	"github.com/charmbracelet/log"
)

// TCPSink runs a fan-out TCP server: every connected client receives every
// sentence sent through it. Grounded on the teacher's KISS-over-TCP server
// in direwolf's tq.go/kiss_frame.go dispatch, simplified down to raw NMEA
// text framing (no KISS escaping needed).
type TCPSink struct {
	logger *log.Logger

	mu      sync.Mutex
	clients map[net.Conn]struct{}
}

// NewTCPSink starts listening on addr and accepting clients in the
// background until done is closed.
func NewTCPSink(addr string, logger *log.Logger, done <-chan struct{}) (*TCPSink, error) {
	var ln, err = net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("aisrx: listen %q: %w", addr, err)
	}

	var s = &TCPSink{logger: logger, clients: make(map[net.Conn]struct{})}

	go func() {
		<-done
		_ = ln.Close()
	}()

	go s.acceptLoop(ln)

	return s, nil
}

func (s *TCPSink) acceptLoop(ln net.Listener) {
	for {
		var conn, err = ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()

		if s.logger != nil {
			s.logger.Info("NMEA TCP client connected", "remote", conn.RemoteAddr())
		}
	}
}

// Send writes sentence to every connected client, dropping any that error.
func (s *TCPSink) Send(sentence string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if _, err := conn.Write([]byte(sentence)); err != nil {
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
	return nil
}

// SerialSink writes sentences to a raw serial device, adapted from
// serial_port.go's open/write pair.
type SerialSink struct {
	fd *term.Term
}

// NewSerialSink opens device at baud (0 leaves the port speed alone).
func NewSerialSink(device string, baud int) (*SerialSink, error) {
	var fd, err = term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("aisrx: open serial port %q: %w", device, err)
	}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		_ = fd.SetSpeed(baud)
	default:
		_ = fd.SetSpeed(4800)
	}

	return &SerialSink{fd: fd}, nil
}

func (s *SerialSink) Send(sentence string) error {
	var written, err = s.fd.Write([]byte(sentence))
	if err != nil {
		return err
	}
	if written != len(sentence) {
		return fmt.Errorf("aisrx: short serial write: %d of %d bytes", written, len(sentence))
	}
	return nil
}

func (s *SerialSink) Close() error {
	return s.fd.Close()
}

// MQTTSink publishes each sentence to a fixed topic on broker, for
// shore-side aggregation. Not present in the teacher; grounded on the
// paho.mqtt.golang usage elsewhere in the retrieval pack.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

// NewMQTTSink connects to broker (e.g. "tcp://host:1883") and returns a
// sink publishing to topic at QoS 0.
func NewMQTTSink(broker, topic, clientID string) (*MQTTSink, error) {
	var opts = mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID).SetAutoReconnect(true)
	var client = mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("aisrx: connect MQTT broker %q: %w", broker, token.Error())
	}

	return &MQTTSink{client: client, topic: topic}, nil
}

func (s *MQTTSink) Send(sentence string) error {
	var token = s.client.Publish(s.topic, 0, false, sentence)
	token.Wait()
	return token.Error()
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
