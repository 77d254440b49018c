package loop

import "time"

// Session timing.
const (
	// ShutdownDisplay is how long the shutdown notice stays up before the session ends.
	ShutdownDisplay = 10 * time.Second
	// IdleWarning is shown this long before an idle session is disconnected.
	IdleWarning = 30 * time.Second
)

// Drawing sizes in logical pixels.
const (
	eyeRadiusX    = 40.0
	eyeRadiusY    = 22.0
	irisRadius    = 12.0
	crosshairSize = 15.0
)

// MaxUsernameLength bounds the name shown in the HUD.
const MaxUsernameLength = 16
