package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49650

	portStartEnv = "SINGLEINSTANCE_PORT_START"
	portEndEnv   = "SINGLEINSTANCE_PORT_END"
)

// getPortRange returns the inclusive TCP port range from
// SINGLEINSTANCE_PORT_START/END, clamped to [1024, 65535]. The resident binds
// the start port; clients scan the whole range.
func getPortRange() (int, int) {
	start := envPort(portStartEnv, defaultPortStart)
	end := envPort(portEndEnv, defaultPortEnd)
	start = max(start, 1024)
	end = min(end, 65535)
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envPort(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

// GetPortRangeForDebug exposes the current effective port range for logging/debugging.
func GetPortRangeForDebug() (int, int) { return getPortRange() }
