package volume

import (
	"fmt"
	"strings"

	"github.com/nace/krpa/internal/system"
	"golang.org/x/sys/unix"
)

// Resolver turns fstab device specs into concrete device paths and probes
// what lives on them, by querying blkid.
type Resolver struct {
	runner system.Runner
}

// NewResolver creates a new resolver
func NewResolver(runner system.Runner) *Resolver {
	return &Resolver{
		runner: runner,
	}
}

// Resolve converts a UUID= or LABEL= device spec to a device path.
// Raw paths pass through unchanged; if blkid cannot resolve the spec,
// the original spec is returned so the caller's existence check fails
// with a meaningful name.
func (r *Resolver) Resolve(spec string) string {
	var flag, value string
	switch {
	case strings.HasPrefix(spec, "UUID="):
		flag, value = "-U", strings.TrimPrefix(spec, "UUID=")
	case strings.HasPrefix(spec, "LABEL="):
		flag, value = "-L", strings.TrimPrefix(spec, "LABEL=")
	default:
		return spec
	}

	output, err := r.runner.RunRead("blkid", flag, value)
	if err != nil {
		return spec
	}
	device := strings.TrimSpace(output)
	if device == "" {
		return spec
	}
	return device
}

// FSType returns the filesystem type blkid detects on a device
func (r *Resolver) FSType(device string) (string, error) {
	output, err := r.runner.RunRead("blkid", "-o", "value", "-s", "TYPE", device)
	if err != nil {
		return "", fmt.Errorf("failed to probe filesystem type of %s: %w", device, err)
	}
	return strings.TrimSpace(output), nil
}

// IsBlockDevice reports whether path exists and is a block device
func IsBlockDevice(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK
}
