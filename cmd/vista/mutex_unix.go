//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/dixieflatline76/Vista/config"
	"github.com/dixieflatline76/Vista/util/log"
)

var lockFile *os.File

// acquireLock tries to acquire a single-instance lock (file lock on Unix).
func acquireLock() (bool, error) {
	lockFilePath := filepath.Join(os.TempDir(), config.AppName+".lock")
	file, err := os.OpenFile(lockFilePath, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	lockFile = file
	return true, nil
}

// releaseLock releases the single-instance lock.
func releaseLock() {
	if lockFile == nil {
		return
	}
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_UN); err != nil {
		log.Printf("Failed to release lock: %v", err)
	}
	lockFile.Close()
	os.Remove(lockFile.Name())
}
