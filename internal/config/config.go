package config

import "time"

const (
	// Display (SSD1306-class OLED)
	ViewportWidth   = 128
	ViewportHeight  = 64
	ScaleMMPerPx    = 20.0 // Real-world millimeters covered by one pixel
	IntensityLevels = 16   // 4-bit panels; monochrome panels only use 0 and 15

	// Trail markers
	MarkerMinRadius = 0 // Oldest point: single pixel
	MarkerMaxRadius = 2 // Newest point

	// Heading
	Declination        = -21.0 // Magnetic declination in degrees for the deployment site
	CompassSmoothSteps = 10    // Moving-average window inside the compass driver
	CompassMinX        = -1000.0
	CompassMaxX        = 1000.0
	CompassMinY        = -1000.0
	CompassMaxY        = 1000.0

	// Range
	MaxAcceptRange = 4000 // Readings beyond this are noise and never enter the history
	RangeSensorMax = 8190 // VL53L0X ceiling; beyond it the sensor reports status 4

	// History
	HistoryCapacity = 10

	// Loop
	CycleDelay  = 100 * time.Millisecond // ~10 Hz
	SplashDelay = time.Second

	// I2C addresses
	AddrCompass     = 0x0D // QMC5883L
	AddrRangefinder = 0x29 // VL53L0X
	AddrDisplay     = 0x3C // SSD1306

	// Serial trace
	SerialBaud = 115200

	// Simulation
	SimRotationRPM = 6 // Full turns per minute of the simulated mount
	SimRangeNoise  = 8.0
	SimHeadingJit  = 0.8 // Degrees of compass noise before smoothing

	// Simulated room walls relative to the scanner, millimeters
	SimWallEast  = 5600.0
	SimWallWest  = -1500.0
	SimWallNorth = 1200.0
	SimWallSouth = -1800.0

	// Open doorway in the north wall; the sensor sees nothing through it
	SimDoorFromX = 800.0
	SimDoorToX   = 1700.0

	// App
	AppName    = "POLAR-SCANNER"
	AppVersion = "1.0"
	SplashText = "Scanner 2D Polar"
)
