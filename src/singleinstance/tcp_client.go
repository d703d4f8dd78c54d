package singleinstance

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"secure-clipboard/src/bridge"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) TryCall(ctx context.Context, call bridge.Call) (bool, bridge.Result, error) {
	deadline := probeTimeout(ctx, 2*time.Second)
	payload, err := json.Marshal(call)
	if err != nil {
		return false, bridge.Result{}, err
	}
	// scan configured range for resident using PING then request
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, deadline) {
			continue
		}
		return roundTrip(addr, payload, deadline)
	}
	return false, bridge.Result{}, nil
}

// roundTrip reports sent=true once the request has left this process; from
// then on the resident may have acted on it even if no answer arrives.
func roundTrip(addr string, payload []byte, timeout time.Duration) (sent bool, result bridge.Result, err error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false, bridge.Result{}, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return false, bridge.Result{}, err
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return true, bridge.Result{}, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(line, &result); err != nil {
		return true, bridge.Result{}, fmt.Errorf("decode response: %w", err)
	}
	return true, result, nil
}
