package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	In-memory RadioIC test double.
 *
 * Description:	Used by the Receiver tests (receiver_test.go) to
 *		feed a known bit stream to a Receiver
 *		and to assert on which commands the core issued, without
 *		any SPI transport.
 *
 *------------------------------------------------------------------*/

// NullRadioIC is a RadioIC that serves bits from a preloaded queue and
// records every command issued to it.
type NullRadioIC struct {
	bits []bool
	pos  int

	ConfigureCalls        int
	ConfigureGPIOsCalls   int
	StartRXCalls          []StartRXOptions
	RSSIValue             uint8
	ReadRSSICalls         int
}

// NewNullRadioIC creates a double with no bits queued yet.
func NewNullRadioIC() *NullRadioIC {
	return &NullRadioIC{}
}

// Feed appends bits (as bools, true=1) to the line the decoder will read.
func (r *NullRadioIC) Feed(bits ...bool) {
	r.bits = append(r.bits, bits...)
}

func (r *NullRadioIC) Configure() error {
	r.ConfigureCalls++
	return nil
}

func (r *NullRadioIC) ConfigureGPIOsForRX() error {
	r.ConfigureGPIOsCalls++
	return nil
}

func (r *NullRadioIC) SendCmdNoWait(opts StartRXOptions) error {
	r.StartRXCalls = append(r.StartRXCalls, opts)
	return nil
}

func (r *NullRadioIC) ReadRSSI() (uint8, error) {
	r.ReadRSSICalls++
	return r.RSSIValue, nil
}

func (r *NullRadioIC) ReadDataBit() bool {
	if r.pos >= len(r.bits) {
		return false
	}
	var b = r.bits[r.pos]
	r.pos++
	return b
}

// Exhausted reports whether every fed bit has been consumed.
func (r *NullRadioIC) Exhausted() bool {
	return r.pos >= len(r.bits)
}
