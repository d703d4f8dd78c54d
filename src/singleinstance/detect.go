package singleinstance

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"
)

// DetectResidentPort returns the first port in range whose listener answers
// PING with PONG.
func DetectResidentPort(ctx context.Context) (int, bool) {
	timeout := probeTimeout(ctx, 300*time.Millisecond)
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return 0, false
		}
		if ping(net.JoinHostPort(residentHost, strconv.Itoa(port)), timeout) {
			return port, true
		}
	}
	return 0, false
}

// probeTimeout uses the time left on ctx, or fallback without a deadline.
func probeTimeout(ctx context.Context, fallback time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return fallback
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(pingRequest)); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}
