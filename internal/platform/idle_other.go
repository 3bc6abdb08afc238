//go:build !linux && !darwin && !windows

package platform

import (
	"time"

	"breaktime/internal/core/naturalbreak"
)

type idleProvider struct{}

func newIdleProvider() naturalbreak.IdleProvider {
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	return 0, naturalbreak.ErrIdleUnsupported
}
