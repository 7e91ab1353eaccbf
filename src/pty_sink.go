package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Feed sentences to a pseudo-terminal, for desktop chart
 *		plotters (e.g. OpenCPN) that expect to read NMEA off a
 *		local serial device. Not present in the teacher; grounded
 *		on creack/pty, used elsewhere in the retrieval pack for the
 *		same "pretend to be a serial port" purpose.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// PTYSink writes sentences to the master side of a pty pair and reports
// the slave device path clients should open.
type PTYSink struct {
	master *os.File
	slave  *os.File
	path   string
}

// NewPTYSink allocates a new pty pair.
func NewPTYSink() (*PTYSink, error) {
	var master, slave, err = pty.Open()
	if err != nil {
		return nil, fmt.Errorf("aisrx: open pty: %w", err)
	}

	return &PTYSink{master: master, slave: slave, path: slave.Name()}, nil
}

// Path returns the slave device path (e.g. "/dev/pts/4") for clients to
// open as a serial port.
func (s *PTYSink) Path() string {
	return s.path
}

func (s *PTYSink) Send(sentence string) error {
	var _, err = s.master.Write([]byte(sentence))
	return err
}

func (s *PTYSink) Close() error {
	var err1 = s.master.Close()
	var err2 = s.slave.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
