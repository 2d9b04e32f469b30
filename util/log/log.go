//go:build !release

package log

import (
	"fmt"
	"log"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// Print calls the standard log.Print()
func Print(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
}

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Println calls the standard log.Println()
func Println(v ...interface{}) {
	log.Output(2, fmt.Sprintln(v...))
}

// Fatal calls the standard log.Fatal()
func Fatal(v ...interface{}) {
	log.Fatal(v...)
}

// Fatalf calls the standard log.Fatalf()
func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// Fatalln calls the standard log.Fatalln()
func Fatalln(v ...interface{}) {
	log.Fatalln(v...)
}

// Debug logs with a [DEBUG] prefix when debug output is enabled.
func Debug(v ...interface{}) {
	if debug.Load() {
		log.Output(2, "[DEBUG] "+fmt.Sprint(v...))
	}
}

// Debugf logs with a [DEBUG] prefix when debug output is enabled.
func Debugf(format string, v ...interface{}) {
	if debug.Load() {
		log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
	}
}
