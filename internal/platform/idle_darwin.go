package platform

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"breaktime/internal/core/naturalbreak"
)

var hidIdlePattern = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

type idleProvider struct {
	ioregPath string
}

func newIdleProvider() naturalbreak.IdleProvider {
	path, err := exec.LookPath("ioreg")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{ioregPath: path}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.ioregPath, "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseHIDIdleTime(output)
}

// parseHIDIdleTime extracts HIDIdleTime, reported in nanoseconds.
func parseHIDIdleTime(output []byte) (time.Duration, error) {
	match := hidIdlePattern.FindSubmatch(output)
	if match == nil {
		return 0, naturalbreak.ErrIdleUnsupported
	}
	nanos, err := strconv.ParseInt(string(match[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle nanoseconds: %w", err)
	}
	return time.Duration(nanos), nil
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, naturalbreak.ErrIdleUnsupported
}
