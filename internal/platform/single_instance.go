package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const activateMessage = "activate"

// InstanceGuard holds the single-instance lock. While held it accepts
// activation requests from later launches.
type InstanceGuard struct {
	listener    net.Listener
	address     string
	activations chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	guard := &InstanceGuard{
		listener:    listener,
		address:     address,
		activations: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	go guard.acceptLoop()
	return guard, nil
}

// NotifyRunning asks the instance holding the lock to bring itself to the
// front.
func NotifyRunning(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), time.Second)
	if err != nil {
		return fmt.Errorf("notify running instance: %w", err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, activateMessage); err != nil {
		return fmt.Errorf("notify running instance: %w", err)
	}
	return nil
}

// Activations delivers one value per activation request. Requests arriving
// while one is pending are coalesced.
func (guard *InstanceGuard) Activations() <-chan struct{} {
	return guard.activations
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	var err error
	guard.closeOnce.Do(func() {
		err = guard.listener.Close()
		<-guard.done
	})
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) acceptLoop() {
	defer close(guard.done)
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		if readActivation(conn) {
			select {
			case guard.activations <- struct{}{}:
			default:
			}
		}
	}
}

func readActivation(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == activateMessage
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
