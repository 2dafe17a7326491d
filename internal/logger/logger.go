package logger

import (
	"log"
	"os"
)

var (
	// Info goes to stdout.
	Info = log.New(os.Stdout, "", log.LstdFlags)

	// Error goes to stderr.
	Error = log.New(os.Stderr, "", log.LstdFlags)
)

// DebugEnabled reports whether DEBUG=1 is set.
func DebugEnabled() bool {
	return os.Getenv("DEBUG") == "1"
}

func DebugLog(format string, args ...any) {
	if DebugEnabled() {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	Info.Printf(format, args...)
}

func Errorf(format string, args ...any) {
	Error.Printf(format, args...)
}
