package cli

import (
	"github.com/nace/krpa/internal/fstab"
	"github.com/nace/krpa/internal/remedy"
	"github.com/nace/krpa/internal/system"
	"github.com/spf13/cobra"
)

// RunCommand performs the remediation sweep
type RunCommand struct {
	ctx    *GlobalContext
	dryRun *bool
}

// NewRunCommand creates the run command. dryRun points at the global
// --dry-run flag so the remediator can skip the marker write too.
func NewRunCommand(ctx *GlobalContext, dryRun *bool) *cobra.Command {
	cmd := &RunCommand{ctx: ctx, dryRun: dryRun}

	cobraCmd := &cobra.Command{
		Use:   "run",
		Short: "Inspect and repair NTFS fstab volumes",
		Long: `Walk every NTFS entry in fstab, detect unmounted or kernel-reported
error states, repair with ntfsfix and remount. Always exits 0 once the
sweep completes; failures surface in the log and the summary counters.`,
		RunE: cmd.Run,
	}

	return cobraCmd
}

// Run executes the run command
func (c *RunCommand) Run(cmd *cobra.Command, args []string) error {
	if err := system.RequireRoot(); err != nil {
		return err
	}

	if err := c.ctx.CheckDependencies(); err != nil {
		return err
	}

	log := c.ctx.Logger
	if err := log.AttachFile(c.ctx.Config.LogFile); err != nil {
		log.Warning("Running without log file: %v", err)
	}
	defer log.Close()

	log.Info("Starting NTFS remediation sweep")

	entries, err := fstab.Parse(c.ctx.Config.FstabPath)
	if err != nil {
		// still do the catch-all mount and marker write below
		log.Error("Failed to read %s: %v", c.ctx.Config.FstabPath, err)
	}
	candidates := fstab.FilterNTFS(entries, c.ctx.Config.NTFSAliases)
	if len(candidates) == 0 {
		log.Info("No NTFS entries in %s", c.ctx.Config.FstabPath)
	}

	remediator := remedy.New(remedy.Deps{
		Runner:       c.ctx.Executor,
		Log:          log,
		Resolver:     c.ctx.Resolver,
		Mounts:       c.ctx.MountMgr,
		Prober:       c.ctx.Prober,
		Kernel:       c.ctx.Kernel,
		MarkerFile:   c.ctx.Config.MarkerFile,
		FallbackType: c.ctx.Config.FallbackType,
		NTFSAliases:  c.ctx.Config.NTFSAliases,
		DryRun:       *c.dryRun,
	})

	remediator.Sweep(candidates)

	// per-entry failures are deliberately not propagated
	return nil
}
