package volume

import (
	"fmt"
	"os"
	"time"

	"github.com/nace/krpa/internal/system"
)

// MountManager handles filesystem mount operations
type MountManager struct {
	runner system.Runner
	settle time.Duration
	dryRun bool
}

// NewMountManager creates a new mount manager. settle is how long to wait
// after a lazy unmount for the kernel to detach the mount point; dryRun
// suppresses mount point creation alongside the suppressed mount commands.
func NewMountManager(runner system.Runner, settle time.Duration, dryRun bool) *MountManager {
	return &MountManager{
		runner: runner,
		settle: settle,
		dryRun: dryRun,
	}
}

// ensureMountPoint creates the mount point directory if needed
func (m *MountManager) ensureMountPoint(mountPoint string) error {
	if m.dryRun {
		return nil
	}
	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return fmt.Errorf("failed to create mount point: %w", err)
	}
	return nil
}

// MountEntry mounts a mount point using its fstab configuration
func (m *MountManager) MountEntry(mountPoint string) error {
	if err := m.ensureMountPoint(mountPoint); err != nil {
		return err
	}

	if err := m.runner.Run("mount", mountPoint); err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountPoint, err)
	}
	return nil
}

// MountWithType mounts a device with an explicit filesystem type, bypassing
// whatever type the fstab entry declares. Used as the fallback when the
// fstab-driven mount fails after a repair.
func (m *MountManager) MountWithType(device, mountPoint, fsType string) error {
	if err := m.ensureMountPoint(mountPoint); err != nil {
		return err
	}

	if err := m.runner.Run("mount", "-t", fsType, device, mountPoint); err != nil {
		return fmt.Errorf("failed to mount %s to %s as %s: %w", device, mountPoint, fsType, err)
	}
	return nil
}

// Unmount unmounts a mount point. On failure it degrades to a lazy unmount
// and waits briefly for the detach to settle; the lazy result is returned
// without verifying the mount actually released.
func (m *MountManager) Unmount(mountPoint string) error {
	if err := m.runner.Run("umount", mountPoint); err == nil {
		return nil
	}

	err := m.runner.Run("umount", "-l", mountPoint)
	if m.settle > 0 {
		time.Sleep(m.settle)
	}
	if err != nil {
		return fmt.Errorf("failed to unmount %s: %w", mountPoint, err)
	}
	return nil
}

// MountAll mounts everything fstab declares that is not already mounted
func (m *MountManager) MountAll() error {
	if err := m.runner.Run("mount", "-a"); err != nil {
		return fmt.Errorf("failed to mount all fstab entries: %w", err)
	}
	return nil
}
