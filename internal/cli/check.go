package cli

import (
	"fmt"

	"github.com/nace/krpa/internal/fstab"
	"github.com/nace/krpa/internal/system"
	"github.com/nace/krpa/internal/ui"
	"github.com/nace/krpa/internal/volume"
	"github.com/spf13/cobra"
)

// CheckCommand inspects NTFS fstab entries without touching anything
type CheckCommand struct {
	ctx  *GlobalContext
	json bool
}

// entryReport is one row of check output
type entryReport struct {
	Device     string `json:"device"`
	Resolved   string `json:"resolved"`
	FSType     string `json:"fstype"`
	MountPoint string `json:"mountpoint"`
	State      string `json:"state"`
	Health     string `json:"health"`
}

// NewCheckCommand creates the check command
func NewCheckCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &CheckCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "check",
		Short: "Report the state of NTFS fstab volumes",
		Long: `Inspect every NTFS entry in fstab and report device resolution, mount
state and kernel-log health. Read-only; nothing is unmounted or repaired.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.json, "json", "j", false, "JSON output")

	return cobraCmd
}

// Run executes the check command
func (c *CheckCommand) Run(cmd *cobra.Command, args []string) error {
	if err := system.RequireRoot(); err != nil {
		return err
	}

	if err := c.ctx.CheckDependencies(); err != nil {
		return err
	}

	entries, err := fstab.Parse(c.ctx.Config.FstabPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.ctx.Config.FstabPath, err)
	}

	candidates := fstab.FilterNTFS(entries, c.ctx.Config.NTFSAliases)
	if len(candidates) == 0 {
		fmt.Printf("No NTFS entries in %s\n", c.ctx.Config.FstabPath)
		return nil
	}

	reports := make([]entryReport, 0, len(candidates))
	for _, entry := range candidates {
		reports = append(reports, c.inspect(entry))
	}

	if c.json {
		return ui.PrintJSON(reports)
	}

	table := ui.NewTable("DEVICE", "RESOLVED", "TYPE", "MOUNTPOINT", "STATE", "HEALTH")
	for _, r := range reports {
		table.AddRow(r.Device, r.Resolved, r.FSType, r.MountPoint, r.State, r.Health)
	}
	table.Print()

	return nil
}

// inspect probes one entry without side effects
func (c *CheckCommand) inspect(entry fstab.Entry) entryReport {
	report := entryReport{
		Device:     entry.Device,
		MountPoint: entry.MountPoint,
		FSType:     "-",
		State:      "missing",
		Health:     "-",
	}

	report.Resolved = c.ctx.Resolver.Resolve(entry.Device)
	if !volume.IsBlockDevice(report.Resolved) {
		return report
	}

	if fsType, err := c.ctx.Resolver.FSType(report.Resolved); err == nil && fsType != "" {
		report.FSType = fsType
	}

	mounted, err := c.ctx.Prober.Mounted(entry.MountPoint)
	if err != nil {
		mounted = false
	}
	if !mounted {
		report.State = "not mounted"
		return report
	}

	report.State = "mounted"
	report.Health = kernelHealth(c.ctx.Kernel, report.Resolved)
	return report
}

// kernelHealth maps a kernel log scan to a health column value. A failed
// scan reports "unknown" rather than passing as clean.
func kernelHealth(kernel *volume.KernelLog, device string) string {
	dirty, err := kernel.HasErrors(device)
	switch {
	case err != nil:
		return "unknown"
	case dirty:
		return "errors"
	default:
		return "ok"
	}
}
