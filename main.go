package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"polar-scanner.klederson.com/internal/app"
	"polar-scanner.klederson.com/internal/config"
	"polar-scanner.klederson.com/internal/logger"
	"polar-scanner.klederson.com/internal/sensor"
	"polar-scanner.klederson.com/internal/trace"
)

var (
	flagConfig  string
	flagPlotIn  string
	flagPlotOut string
	flagPlotMax int
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "polar-scanner",
		Short: "Polar Scanner - 2D scanner fusing a compass heading with a laser range",
		Long: `Polar Scanner rotates a simulated QMC5883L compass and VL53L0X time-of-flight
sensor, fuses each heading and distance into a point, and draws the last
points on a 128x64 scope with a crosshair, growing markers and a HUD.

Every cycle is also written as a CSV line (t,angle,dist,x,y) to a file,
stdout or a serial port.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "Config file (default: polar-scanner.toml in ., ~/.config/polar-scanner, /etc)")
	f.Bool("headless", false, "Run without the terminal UI and stream the CSV trace")
	f.String("csv", "", "Write the CSV trace to this file (\"-\" for stdout)")
	f.Bool("csv-header", false, "Write a header line before the first record")
	f.String("serial", "", "Write the CSV trace to this serial port")
	f.Int("baud", config.SerialBaud, "Serial port baud rate")
	f.Int("data-bits", 8, "Serial data bits (5-8)")
	f.Int("stop-bits", 1, "Serial stop bits (1 or 2)")
	f.String("parity", "N", "Serial parity (N, E or O)")
	f.Float64("declination", config.Declination, "Magnetic declination in degrees")
	f.Float64("scale", config.ScaleMMPerPx, "Display scale in millimeters per pixel")
	f.Int("history", config.HistoryCapacity, "Number of points kept on the trail")
	f.Int("max-range", config.MaxAcceptRange, "Farthest accepted distance in millimeters")
	f.Bool("monochrome", true, "Draw markers at a single intensity")
	f.StringSlice("absent", nil, "Simulated devices that do not answer (compass, rangefinder, display)")
	f.String("log-file", "polar-scanner.log", "Log file used while the terminal UI is active")
	f.Bool("debug", false, "Enable debug logging")
	f.Bool("verbose", false, "Enable info logging")

	for key, name := range map[string]string{
		"headless":         "headless",
		"csv":              "csv",
		"csv_header":       "csv-header",
		"serial":           "serial",
		"baud":             "baud",
		"serial_data_bits": "data-bits",
		"serial_stop_bits": "stop-bits",
		"serial_parity":    "parity",
		"declination":      "declination",
		"scale":            "scale",
		"history":          "history",
		"max_range":        "max-range",
		"monochrome":       "monochrome",
		"absent":           "absent",
		"log_file":         "log-file",
		"debug":            "debug",
		"verbose":          "verbose",
	} {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: bind flag %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(busScanCmd(), plotCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	settings, err := config.Load(v, flagConfig)
	if err != nil {
		return err
	}

	logClose, err := initLogging(settings)
	if err != nil {
		return err
	}
	defer logClose()

	if !settings.Headless && settings.CSVPath == "-" {
		return fmt.Errorf("--csv - needs --headless, stdout is used by the terminal UI")
	}

	rig, err := app.NewRig(settings)
	if err != nil {
		return err
	}
	defer rig.Close()

	logger.Info().
		Float64("declination", settings.Declination).
		Float64("scale", settings.ScaleMMPerPx).
		Int("history", settings.HistoryCapacity).
		Str("trace", rig.TraceTarget).
		Bool("degraded", rig.Degraded).
		Msg("scanner ready")

	if settings.Headless {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := rig.Splash(ctx, true); err != nil {
			logger.Warn().Err(err).Msg("splash failed")
		}
		if err := app.RunHeadless(ctx, rig.Pipeline, settings.CycleDelay); err != nil {
			logger.Error().Err(err).Msg("scan loop failed")
			return err
		}
		return nil
	}

	// The model holds the splash on screen itself.
	if err := rig.Splash(ctx, false); err != nil {
		logger.Warn().Err(err).Msg("splash failed")
	}

	p := tea.NewProgram(
		app.New(rig),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("terminal ui stopped")
		return err
	}
	return nil
}

// initLogging sends logs to stderr when headless and to the log file when the
// terminal UI owns the screen.
func initLogging(s *config.Settings) (func(), error) {
	if s.Headless {
		logger.Init(os.Stderr, s.Debug, s.Verbose)
		return func() {}, nil
	}
	if s.LogFile == "" {
		logger.Init(io.Discard, s.Debug, s.Verbose)
		return func() {}, nil
	}

	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Init(f, s.Debug, s.Verbose)
	return func() { _ = f.Close() }, nil
}

func busScanCmd() *cobra.Command {
	var absent []string
	cmd := &cobra.Command{
		Use:   "bus-scan",
		Short: "Probe every I2C address on the simulated bus and list the devices found",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(os.Stderr, false, true)

			s := &config.Settings{Absent: absent}
			found := sensor.ScanBus(sensor.NewSimBus(app.PresentDevices(s)...))
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "No I2C devices found")
				return nil
			}
			for _, addr := range found {
				fmt.Fprintf(out, "0x%02X  %s\n", addr, sensor.DeviceName(addr))
			}
			fmt.Fprintf(out, "%d device(s)\n", len(found))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&absent, "absent", nil, "Simulated devices that do not answer")
	return cmd
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a recorded CSV trace as a PNG scatter plot",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(flagPlotIn)
			if err != nil {
				return fmt.Errorf("open trace: %w", err)
			}
			defer in.Close()

			records, err := trace.ReadTrace(in)
			if err != nil {
				return err
			}
			if err := trace.PlotPNG(records, flagPlotMax, flagPlotOut); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records plotted to %s\n", len(records), flagPlotOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagPlotIn, "in", "trace.csv", "CSV trace to read")
	cmd.Flags().StringVar(&flagPlotOut, "out", "scan.png", "PNG file to write")
	cmd.Flags().IntVar(&flagPlotMax, "max-range", config.MaxAcceptRange, "Plot extent in millimeters")
	return cmd
}
