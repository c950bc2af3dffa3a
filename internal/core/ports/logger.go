package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a verbose diagnostic message, such as the reason a target
	// was considered outdated.
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	// Warn logs a recoverable problem, such as an unreadable cache entry.
	Warn(msg string, args ...any)
	// Error logs err including its cause chain.
	Error(err error)
}
