package loop

import "time"

// Loop tuning constants. Gameplay tuning lives in internal/config.

// Shutdown
const (
	ShutdownNotice = 10 * time.Second // How long the shutdown message stays up before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Registry
const (
	registryPollInterval = 200 * time.Millisecond
)
