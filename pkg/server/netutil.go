package server

import (
	"fmt"
	"net"
)

// localIPv4 returns the address of the interface used for outbound traffic.
// Dialing UDP sends no packets; it only selects a route.
func localIPv4() (net.IP, error) {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return nil, fmt.Errorf("failed to discover local address: %w", err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.To4() == nil {
		return nil, fmt.Errorf("no local IPv4 address")
	}
	return addr.IP.To4(), nil
}

// isWildcard reports whether host means "all interfaces"
func isWildcard(host string) bool {
	if host == "" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsUnspecified()
}
