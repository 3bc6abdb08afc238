package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	minLockPort = 20000
	maxLockPort = 39999
)

// InstanceLock marks the process holding it as the main instance.
type InstanceLock struct {
	listener net.Listener
}

// AcquireInstanceLock binds a localhost port derived from appName. Only one
// process per user session can hold it at a time.
func AcquireInstanceLock(appName string) (*InstanceLock, error) {
	address := LockAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if isAddrInUse(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrAlreadyRunning, address, err)
		}
		return nil, fmt.Errorf("bind instance lock %s: %w", address, err)
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the lock. It is safe to call on a nil lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// LockAddress returns the loopback address the lock for appName binds.
func LockAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", lockPort(appName))
}

func lockPort(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxLockPort - minLockPort + 1
	return minLockPort + int(hash.Sum32()%uint32(rangeSize))
}
