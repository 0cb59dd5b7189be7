package autostart

// Manager registers the application to start at login.
type Manager interface {
	// IsEnabled returns whether autostart is currently enabled
	IsEnabled() bool

	// Enable sets up the application to start on login
	Enable() error

	// Disable removes the autostart configuration
	Disable() error
}
