package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrInvalidScale       = errors.New("scale (mm per pixel) must be positive")
	ErrInvalidCapacity    = errors.New("history capacity must be positive")
	ErrInvalidDeclination = errors.New("declination must be within (-360, 360)")
	ErrInvalidDelay       = errors.New("cycle delay must be positive")
	ErrInvalidRange       = errors.New("max accept range must be positive")
)

// EnvPrefix is prepended to every environment override, e.g. POLARSCAN_DECLINATION.
const EnvPrefix = "POLARSCAN"

// Settings is the start-up configuration. It is read once and never reloaded.
type Settings struct {
	Declination     float64       `mapstructure:"declination"`
	ScaleMMPerPx    float64       `mapstructure:"scale"`
	HistoryCapacity int           `mapstructure:"history"`
	MaxAcceptRange  int           `mapstructure:"max_range"`
	CycleDelay      time.Duration `mapstructure:"cycle_delay"`
	Monochrome      bool          `mapstructure:"monochrome"`

	Headless   bool   `mapstructure:"headless"`
	CSVPath    string `mapstructure:"csv"`
	CSVHeader  bool   `mapstructure:"csv_header"`
	SerialPort string `mapstructure:"serial"`
	SerialBaud int    `mapstructure:"baud"`

	// Serial framing, checked when the port is opened.
	SerialDataBits int    `mapstructure:"serial_data_bits"`
	SerialStopBits int    `mapstructure:"serial_stop_bits"`
	SerialParity   string `mapstructure:"serial_parity"`

	// Absent lists simulated devices that do not answer on the bus
	// ("compass", "rangefinder", "display").
	Absent []string `mapstructure:"absent"`

	LogFile string `mapstructure:"log_file"`
	Debug   bool   `mapstructure:"debug"`
	Verbose bool   `mapstructure:"verbose"`
}

// SetDefaults registers the build-time constants as viper defaults.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("declination", Declination)
	v.SetDefault("scale", ScaleMMPerPx)
	v.SetDefault("history", HistoryCapacity)
	v.SetDefault("max_range", MaxAcceptRange)
	v.SetDefault("cycle_delay", CycleDelay)
	v.SetDefault("monochrome", true)
	v.SetDefault("headless", false)
	v.SetDefault("csv", "")
	v.SetDefault("csv_header", false)
	v.SetDefault("serial", "")
	v.SetDefault("baud", SerialBaud)
	v.SetDefault("serial_data_bits", 8)
	v.SetDefault("serial_stop_bits", 1)
	v.SetDefault("serial_parity", "N")
	v.SetDefault("absent", []string{})
	v.SetDefault("log_file", "polar-scanner.log")
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
}

// Load reads polar-scanner.toml (if any), environment overrides and whatever
// flags were bound to v, then validates the result.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("polar-scanner")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "polar-scanner"))
		}
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings that would make the scan pipeline meaningless.
// These are programming errors and are reported before the loop starts.
func (s *Settings) Validate() error {
	if !(s.ScaleMMPerPx > 0) || math.IsInf(s.ScaleMMPerPx, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidScale, s.ScaleMMPerPx)
	}
	if s.HistoryCapacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, s.HistoryCapacity)
	}
	if math.IsNaN(s.Declination) || s.Declination <= -360 || s.Declination >= 360 {
		return fmt.Errorf("%w: got %v", ErrInvalidDeclination, s.Declination)
	}
	if s.CycleDelay <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDelay, s.CycleDelay)
	}
	if s.MaxAcceptRange <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRange, s.MaxAcceptRange)
	}
	return nil
}

// IsAbsent reports whether the named simulated device was configured as missing.
func (s *Settings) IsAbsent(device string) bool {
	for _, d := range s.Absent {
		if strings.EqualFold(strings.TrimSpace(d), device) {
			return true
		}
	}
	return false
}
