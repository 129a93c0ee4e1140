package glyphknit

import "log"

// Logger is the minimal logging surface glyphknit needs, the same
// shape go-text/typesetting's fontscan.FontMap asks its caller for.
// Any *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...interface{})
}

func defaultLogger() Logger {
	return log.New(log.Writer(), "glyphknit: ", log.LstdFlags)
}
