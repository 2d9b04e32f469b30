//go:build windows

package main

import (
	"errors"

	"golang.org/x/sys/windows"

	"github.com/dixieflatline76/Vista/config"
	"github.com/dixieflatline76/Vista/util/log"
)

var mutex windows.Handle

// acquireLock tries to acquire a single-instance lock (mutex on Windows).
func acquireLock() (bool, error) {
	namePtr, err := windows.UTF16PtrFromString(config.AppName + "_SingleInstanceMutex")
	if err != nil {
		return false, err
	}

	mutex, err = windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			if mutex != 0 {
				windows.CloseHandle(mutex)
				mutex = 0
			}
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// releaseLock releases the single-instance lock.
func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.ReleaseMutex(mutex); err != nil {
		log.Printf("Failed to release mutex: %v", err)
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
}
