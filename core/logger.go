package core

// Logger is any service that can log messages.
// args may contain errors, maps of extra data and the Person the log entry is about.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person is the authenticated caller, as asserted by the external auth provider.
type Person struct {
	ID    string
	Name  string
	Email string
	Roles []string
}
