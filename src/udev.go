package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Watch for USB radio adapter hotplug events, logging
 *		arrivals/removals. Not present in the teacher (which talks
 *		to a fixed TNC device); grounded on jochenvg/go-udev's
 *		netlink monitor, one of the domain dependencies the
 *		retrieval pack carries for exactly this purpose.
 *
 * Description:	Informational only: the spec's radio IC is addressed over
 *		SPI/GPIO lines fixed at startup (spi_radio.go, config.go),
 *		so a hotplug event here is logged, not acted on; wiring it
 *		to a live reconfigure is future work.
 *
 *------------------------------------------------------------------*/

import (
	"context"

	"github.com/jochenvg/go-udev"

	"github.com/charmbracelet/log"
)

// RadioDeviceWatcher logs USB device add/remove events on the "usb"
// subsystem until its context is canceled.
type RadioDeviceWatcher struct {
	logger *log.Logger
}

// NewRadioDeviceWatcher builds a watcher that logs through logger.
func NewRadioDeviceWatcher(logger *log.Logger) *RadioDeviceWatcher {
	return &RadioDeviceWatcher{logger: logger}
}

// Run starts the netlink monitor and logs events until ctx is canceled.
func (w *RadioDeviceWatcher) Run(ctx context.Context) error {
	var u = udev.Udev{}
	var monitor = u.NewMonitorFromNetlink("udev")

	if err := monitor.FilterAddMatchSubsystem("usb"); err != nil {
		return err
	}

	var deviceChan, errChan, err = monitor.DeviceChan(ctx)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case dev, ok := <-deviceChan:
				if !ok {
					return
				}
				w.logger.Info("USB device event", "action", dev.Action(), "syspath", dev.Syspath())
			case err, ok := <-errChan:
				if !ok {
					return
				}
				w.logger.Warn("udev monitor error", "err", err)
			}
		}
	}()

	return nil
}
