//go:build release

package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dixieflatline76/Vista/config"
)

// Release builds log to a rotating file.
func init() {
	dir, err := logDir()
	if err != nil {
		log.Fatalf("Failed to resolve log directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dir, config.AppName+config.LogExt),
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	})
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

// logDir is the user cache directory on Windows and a dot directory in the home directory
// elsewhere.
func logDir() (string, error) {
	if runtime.GOOS == "windows" {
		cache, err := os.UserCacheDir()
		return filepath.Join(cache, config.LogWinSubDir), err
	}
	home, err := os.UserHomeDir()
	return filepath.Join(home, config.LogSubDir), err
}

func output(s string) {
	log.Output(3, s)
}

// SetDebug is a no-op in release builds.
func SetDebug(bool) {}

// Print calls the standard log.Print()
func Print(v ...interface{}) { output(fmt.Sprint(v...)) }

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) { output(fmt.Sprintf(format, v...)) }

// Println calls the standard log.Println()
func Println(v ...interface{}) { output(fmt.Sprintln(v...)) }

// Fatal logs and exits with status 1.
func Fatal(v ...interface{}) {
	output(fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	output(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Fatalln logs and exits with status 1.
func Fatalln(v ...interface{}) {
	output(fmt.Sprintln(v...))
	os.Exit(1)
}

// Debug is a no-op in release builds.
func Debug(...interface{}) {}

// Debugf is a no-op in release builds.
func Debugf(string, ...interface{}) {}
