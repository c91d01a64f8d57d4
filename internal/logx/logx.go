// Package logx is a thin wrapper around the standard log package giving
// the compiler core's components a consistent "[kryon] <component>: msg"
// prefix.
package logx

import "log"

// Logger tags every line with a component name.
type Logger struct {
	component string
}

// New returns a Logger tagging lines with component.
func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	log.Printf("[kryon] "+l.component+": "+format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	log.Printf("[kryon] "+l.component+" WARN: "+format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	log.Printf("[kryon] "+l.component+" ERROR: "+format, args...)
}
