package singleinstance

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"secure-clipboard/src/bridge"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"

	codeBadRequest = "E_BAD_REQUEST"
	maxLineBytes   = 1 << 20
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	mu       sync.Mutex
	lis      net.Listener
	incoming chan *tcpConn
	port     int
	closed   bool
}

func newTcpServer() Server { return &tcpServer{incoming: make(chan *tcpConn, 8)} }

// Start binds ONLY the start port of the configured range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := net.JoinHostPort(residentHost, fmt.Sprint(start))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = lis.Addr().(*net.TCPAddr).Port
	log.Printf("singleinstance: listening on %s", lis.Addr())
	go s.acceptLoop(ctx, lis)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *tcpServer) acceptLoop(ctx context.Context, lis net.Listener) {
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		go s.handshake(ctx, c)
	}
}

func (s *tcpServer) handshake(ctx context.Context, c net.Conn) {
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	br := bufio.NewReaderSize(c, 4096)
	bw := bufio.NewWriter(c)
	line, err := readLine(br)
	if err != nil {
		log.Printf("singleinstance: read from %s: %v", remote, err)
		_ = c.Close()
		return
	}
	if line == pingRequest {
		log.Printf("singleinstance: PING from %s -> PONG", remote)
		_, _ = bw.WriteString(pongResponse)
		_ = bw.Flush()
		_ = c.Close()
		return
	}

	var call bridge.Call
	if err := json.Unmarshal([]byte(line), &call); err != nil {
		log.Printf("singleinstance: bad request from %s: %v", remote, err)
		tc := &tcpConn{c: c, w: bw}
		_ = tc.Respond(bridge.Result{Code: codeBadRequest, Message: "malformed request", Cause: err.Error()})
		_ = tc.Close()
		return
	}
	// Calls settle quickly except when the main loop is backed up.
	_ = c.SetDeadline(time.Now().Add(30 * time.Second))
	log.Printf("singleinstance: %s from %s", call.Method, remote)

	select {
	case s.incoming <- &tcpConn{c: c, call: call, w: bw}:
	case <-ctx.Done():
		_ = c.Close()
	}
}

// readLine reads one newline-terminated line, bounded by maxLineBytes.
func readLine(br *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		buf = append(buf, chunk...)
		if len(buf) > maxLineBytes {
			return "", fmt.Errorf("request exceeds %d bytes", maxLineBytes)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return "", err
		}
		return string(buf), nil
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case tc, ok := <-s.incoming:
		if !ok {
			return nil, net.ErrClosed
		}
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.lis != nil {
		_ = s.lis.Close()
		s.lis = nil
	}
	return nil
}

type tcpConn struct {
	c    net.Conn
	call bridge.Call
	w    *bufio.Writer
}

func (tc *tcpConn) Call() bridge.Call { return tc.call }

func (tc *tcpConn) Respond(r bridge.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := tc.w.Write(append(data, '\n')); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
