//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package server

import "syscall"

// reuseControl is a no-op where SO_REUSEADDR semantics differ
func reuseControl(network, address string, c syscall.RawConn) error {
	return nil
}
