// Package platform holds the OS integration points that are not tied to a
// single feature: one-instance ownership and login-item registration.
package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"
)

// Line protocol on the loopback instance port. PING answers liveness probes,
// SHOW asks the resident instance to raise its window.
const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	showRequest  = "SHOW\n"
	okResponse   = "OK\n"
)

const (
	defaultPortStart = 49500
	defaultPortEnd   = 49550
)

// ErrAlreadyRunning means another instance holds every port in the range.
var ErrAlreadyRunning = errors.New("instance already running")

// getPortRange returns the loopback port range, overridable through
// TASKGOBLIN_PORT_START and TASKGOBLIN_PORT_END, clamped to [1024, 65535].
func getPortRange() (int, int) {
	start := defaultPortStart
	end := defaultPortEnd
	if v := os.Getenv("TASKGOBLIN_PORT_START"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			start = n
		}
	}
	if v := os.Getenv("TASKGOBLIN_PORT_END"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			end = n
		}
	}
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

// InstanceGuard owns the instance port for the lifetime of the process.
type InstanceGuard struct {
	listener net.Listener
	port     int
	onShow   func()
}

// AcquireSingleInstance binds the first free port of the range and starts
// answering probes. onShow runs whenever a later launch asks the resident
// to come forward; it may be called from the accept goroutine.
func AcquireSingleInstance(onShow func()) (*InstanceGuard, error) {
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		addr := fmt.Sprintf("%s:%d", residentHost, port)
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			continue
		}
		guard := &InstanceGuard{listener: listener, port: port, onShow: onShow}
		log.Printf("singleinstance: listening on %s", addr)
		go guard.acceptLoop()
		return guard, nil
	}
	return nil, ErrAlreadyRunning
}

// Port returns the bound port.
func (g *InstanceGuard) Port() int { return g.port }

// Release frees the instance port.
func (g *InstanceGuard) Release() error {
	if g == nil || g.listener == nil {
		return nil
	}
	return g.listener.Close()
}

func (g *InstanceGuard) acceptLoop() {
	for {
		c, err := g.listener.Accept()
		if err != nil {
			return
		}
		go g.serve(c)
	}
}

func (g *InstanceGuard) serve(c net.Conn) {
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	line, _ := bufio.NewReader(c).ReadString('\n')
	bw := bufio.NewWriter(c)
	switch line {
	case pingRequest:
		_, _ = bw.WriteString(pongResponse)
		_ = bw.Flush()
	case showRequest:
		log.Printf("singleinstance: SHOW from %s", c.RemoteAddr())
		_, _ = bw.WriteString(okResponse)
		_ = bw.Flush()
		if g.onShow != nil {
			g.onShow()
		}
	}
}

// NotifyResident scans the range for a live instance and asks it to raise
// its window. It reports whether a resident answered.
func NotifyResident(ctx context.Context) bool {
	return scanResidents(ctx, showRequest, okResponse, "raised")
}

// PingResident scans the range for a live instance without touching its
// window.
func PingResident(ctx context.Context) bool {
	return scanResidents(ctx, pingRequest, pongResponse, "answered")
}

func scanResidents(ctx context.Context, request, want, verb string) bool {
	deadline := 300 * time.Millisecond
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < deadline {
			deadline = d
		}
	}
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if exchange(addr, deadline, request, want) {
			log.Printf("singleinstance: resident on %s %s", addr, verb)
			return true
		}
	}
	return false
}

// exchange sends one request line and reports whether the expected reply
// came back within the timeout.
func exchange(addr string, timeout time.Duration, request, want string) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	bw := bufio.NewWriter(conn)
	if _, err := bw.WriteString(request); err != nil {
		return false
	}
	if err := bw.Flush(); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == want
}
