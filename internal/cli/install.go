package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nace/krpa/internal/system"
	"github.com/spf13/cobra"
)

const unitTemplate = `[Unit]
Description=NTFS fstab volume remediation
After=graphical.target

[Service]
Type=oneshot
ExecStart=%s run

[Install]
WantedBy=graphical.target
`

// InstallCommand deploys krpa as a systemd oneshot service
type InstallCommand struct {
	ctx      *GlobalContext
	binDir   string
	unitPath string
	noStart  bool
}

// NewInstallCommand creates the install command
func NewInstallCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &InstallCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "install",
		Short: "Install krpa as a systemd oneshot service",
		Long: `Verify required OS packages, copy the binary to the system binary
directory, write the systemd unit, then enable and start it.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.binDir, "bin-dir", "/usr/local/bin", "Install directory for the binary")
	cobraCmd.Flags().StringVar(&cmd.unitPath, "unit-path", "/etc/systemd/system/krpa.service", "Path for the systemd unit file")
	cobraCmd.Flags().BoolVar(&cmd.noStart, "no-start", false, "Enable the unit but do not start it now")

	return cobraCmd
}

// Run executes the install command
func (c *InstallCommand) Run(cmd *cobra.Command, args []string) error {
	if err := system.RequireRoot(); err != nil {
		return err
	}

	log := c.ctx.Logger

	// Step 1: required packages
	log.Info("Checking required packages...")
	if err := c.ensurePackage("ntfsfix", "ntfs-3g"); err != nil {
		return err
	}
	if err := c.ensurePackage("mount", "util-linux"); err != nil {
		return err
	}

	cleanup := system.NewCleanupStack()
	defer func() {
		if err := cleanup.Execute(); err != nil {
			log.Warning("Rollback errors occurred: %v", err)
		}
	}()

	// Step 2: copy the running binary
	target := filepath.Join(c.binDir, "krpa")
	log.Info("Installing binary to %s...", target)
	if err := c.copySelf(target); err != nil {
		return err
	}
	cleanup.Add(func() error {
		return os.Remove(target)
	})

	// Step 3: write the unit file
	log.Info("Writing systemd unit %s...", c.unitPath)
	unit := fmt.Sprintf(unitTemplate, target)
	if err := os.WriteFile(c.unitPath, []byte(unit), 0644); err != nil {
		return fmt.Errorf("failed to write unit file: %w", err)
	}
	cleanup.Add(func() error {
		return os.Remove(c.unitPath)
	})

	// Step 4: enable (and start) the service
	if err := c.ctx.Executor.Run("systemctl", "daemon-reload"); err != nil {
		return err
	}
	log.Info("Enabling krpa.service...")
	if err := c.ctx.Executor.Run("systemctl", "enable", "krpa.service"); err != nil {
		return err
	}
	if !c.noStart {
		log.Info("Starting krpa.service...")
		if err := c.ctx.Executor.Run("systemctl", "start", "krpa.service"); err != nil {
			return err
		}
	}

	cleanup.Clear()

	log.Success("Installed krpa.service")
	return nil
}

// ensurePackage installs pkg through the system package manager when tool
// is not already on PATH.
func (c *InstallCommand) ensurePackage(tool, pkg string) error {
	if c.ctx.Executor.CommandExists(tool) {
		return nil
	}

	c.ctx.Logger.Info("Installing package %s...", pkg)
	switch {
	case c.ctx.Executor.CommandExists("apt-get"):
		return c.ctx.Executor.Run("apt-get", "install", "-y", pkg)
	case c.ctx.Executor.CommandExists("dnf"):
		return c.ctx.Executor.Run("dnf", "install", "-y", pkg)
	case c.ctx.Executor.CommandExists("yum"):
		return c.ctx.Executor.Run("yum", "install", "-y", pkg)
	default:
		return fmt.Errorf("no supported package manager found; install %s manually", pkg)
	}
}

// copySelf copies the currently running executable to target
func (c *InstallCommand) copySelf(target string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate running binary: %w", err)
	}

	src, err := os.Open(self)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", self, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return fmt.Errorf("failed to copy binary: %w", err)
	}
	return dst.Close()
}
