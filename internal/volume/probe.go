package volume

import (
	"github.com/moby/sys/mountinfo"
)

// MountProber reports whether a path is currently a mount point
type MountProber interface {
	Mounted(path string) (bool, error)
}

// Prober probes the live mount table via /proc/self/mountinfo
type Prober struct{}

// Mounted reports whether path is a mount point
func (Prober) Mounted(path string) (bool, error) {
	return mountinfo.Mounted(path)
}
