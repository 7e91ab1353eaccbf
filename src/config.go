package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Station configuration: pool/queue sizing, GPIO pin
 *		assignment, and output sink addresses.
 *
 * Description:	Loaded from the YAML file named by the -c flag
 *		(cmd/aisrx/main.go) on top of compiled-in defaults, after
 *		the teacher's config.go, minus everything specific to
 *		AX.25/APRS channel tuning. No CLI flag overrides an
 *		individual field.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full station configuration.
type Config struct {
	ChipID uint32 `yaml:"chip_id"`

	GPIO struct {
		Chip         string `yaml:"chip"`
		BitClockLine int    `yaml:"bit_clock_line"`
		SlotTickLine int    `yaml:"slot_tick_line"`
	} `yaml:"gpio"`

	Pools struct {
		PacketBuffers int `yaml:"packet_buffers"`
		Events        int `yaml:"events"`
		EventQueue    int `yaml:"event_queue"`
	} `yaml:"pools"`

	InitialChannel string `yaml:"initial_channel"` // "A" or "B"

	Log struct {
		Level          string `yaml:"level"`
		PacketLogDir   string `yaml:"packet_log_dir"`
		FileNamePattern string `yaml:"file_name_pattern"`
	} `yaml:"log"`

	Sinks struct {
		TCPAddr      string `yaml:"tcp_addr"`
		SerialDevice string `yaml:"serial_device"`
		SerialBaud   int    `yaml:"serial_baud"`
		UsePTY       bool   `yaml:"use_pty"`
		MQTTBroker   string `yaml:"mqtt_broker"`
		MQTTTopic    string `yaml:"mqtt_topic"`
		WSAddr       string `yaml:"ws_addr"`
	} `yaml:"sinks"`

	MetricsAddr string `yaml:"metrics_addr"`

	DNSSDName string `yaml:"dns_sd_name"`

	WatchUSBRadio bool `yaml:"watch_usb_radio"`
}

// DefaultConfig returns sane defaults for a single-board station with one
// radio IC, sized for the "commonly 8-16" in-flight packets the spec
// mentions (§9).
func DefaultConfig() Config {
	var c Config
	c.ChipID = 0
	c.GPIO.Chip = "gpiochip0"
	c.GPIO.BitClockLine = 17
	c.GPIO.SlotTickLine = 27
	c.Pools.PacketBuffers = 16
	c.Pools.Events = 16
	c.Pools.EventQueue = 16
	c.InitialChannel = "A"
	c.Log.Level = "info"
	c.Log.FileNamePattern = "%Y-%m-%d.log"
	c.MetricsAddr = ":9480"
	return c
}

// LoadConfig reads a YAML config file on top of DefaultConfig: keys the file
// omits keep their defaults, so a minimal file only needs to override what
// it cares about. An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	var cfg = DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	var data, err = os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("aisrx: read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("aisrx: parse config %q: %w", path, err)
	}

	return cfg, nil
}

// Channel resolves InitialChannel to a VHFChannel, defaulting to ChannelA
// on anything but "B"/"b".
func (c Config) Channel() VHFChannel {
	if c.InitialChannel == "B" || c.InitialChannel == "b" {
		return ChannelB
	}
	return ChannelA
}
