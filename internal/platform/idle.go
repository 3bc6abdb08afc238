package platform

import (
	"breaktime/internal/core/naturalbreak"
)

// NewIdleProvider returns a platform-specific idle provider. Providers
// report naturalbreak.ErrIdleUnsupported when the system offers no idle time.
func NewIdleProvider() naturalbreak.IdleProvider {
	return newIdleProvider()
}
