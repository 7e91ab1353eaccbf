package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Announce the NMEA-over-TCP service using DNS-SD, adapted
 *		from the teacher's dns_sd.go (which announces KISS-over-TCP
 *		instead).
 *
 * Description:	Same pure-Go github.com/brutella/dnssd package, same
 *		create-service / create-responder / add / respond shape;
 *		the service type and default name are the only things that
 *		change for this domain.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"

	"github.com/charmbracelet/log"
)

// DNSSDServiceType is the mDNS/DNS-SD service type this station announces.
const DNSSDServiceType = "_ais-nmea._tcp"

// AnnounceNMEAService advertises an NMEA-over-TCP service on port under
// name (falling back to a generic name if empty) until ctx is canceled.
func AnnounceNMEAService(ctx context.Context, name string, port int, logger *log.Logger) error {
	if name == "" {
		name = "AIS Receiver"
	}

	var cfg = dnssd.Config{Name: name, Type: DNSSDServiceType, Port: port} //nolint:exhaustruct

	var svc, svcErr = dnssd.NewService(cfg)
	if svcErr != nil {
		return fmt.Errorf("aisrx: create DNS-SD service: %w", svcErr)
	}

	var responder, respErr = dnssd.NewResponder()
	if respErr != nil {
		return fmt.Errorf("aisrx: create DNS-SD responder: %w", respErr)
	}

	if _, err := responder.Add(svc); err != nil {
		return fmt.Errorf("aisrx: add DNS-SD service: %w", err)
	}

	logger.Info("announcing NMEA TCP service", "name", name, "port", port)

	go func() {
		if err := responder.Respond(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("DNS-SD responder stopped", "err", err)
		}
	}()

	return nil
}
