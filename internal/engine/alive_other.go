//go:build !unix

package engine

import "os"

// processAlive reports whether pid names a running process. FindProcess
// fails for exited processes on Windows; elsewhere this errs on alive.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
