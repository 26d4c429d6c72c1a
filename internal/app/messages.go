package app

import "time"

// TickMsg triggers one scan cycle.
type TickMsg time.Time

// SplashDoneMsg ends the boot screen.
type SplashDoneMsg struct{}
