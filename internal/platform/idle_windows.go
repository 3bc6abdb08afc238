package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"breaktime/internal/core/naturalbreak"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	getLastInputInfo = user32.NewProc("GetLastInputInfo")
	getTickCount64   = kernel32.NewProc("GetTickCount64")
)

type idleProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() naturalbreak.IdleProvider {
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	if err := getLastInputInfo.Find(); err != nil {
		return 0, fmt.Errorf("%w: %v", naturalbreak.ErrIdleUnsupported, err)
	}
	result, _, err := getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err != nil {
			return 0, fmt.Errorf("get last input info: %w", err)
		}
		return 0, fmt.Errorf("get last input info: unknown error")
	}

	tickResult, _, tickErr := getTickCount64.Call()
	if tickResult == 0 && tickErr != nil {
		return 0, fmt.Errorf("get tick count: %w", tickErr)
	}

	// dwTime is a 32-bit tick count that wraps about every 49.7 days.
	idleMillis := uint32(uint64(tickResult)) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
