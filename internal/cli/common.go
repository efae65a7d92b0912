package cli

import (
	"github.com/nace/krpa/internal/config"
	"github.com/nace/krpa/internal/system"
	"github.com/nace/krpa/internal/ui"
	"github.com/nace/krpa/internal/volume"
)

// GlobalContext holds shared resources for all commands
type GlobalContext struct {
	Config   *config.Config
	Executor *system.Executor
	Logger   *ui.Logger
	Resolver *volume.Resolver
	MountMgr *volume.MountManager
	Prober   volume.MountProber
	Kernel   *volume.KernelLog
}

// NewGlobalContext creates a new global context
func NewGlobalContext(cfg *config.Config, verbose, quiet, noColor, debug, dryRun bool) *GlobalContext {
	executor := system.NewExecutor(debug, dryRun)
	logger := ui.NewLogger(verbose, quiet, noColor)

	return &GlobalContext{
		Config:   cfg,
		Executor: executor,
		Logger:   logger,
		Resolver: volume.NewResolver(executor),
		MountMgr: volume.NewMountManager(executor, cfg.SettleDelay, dryRun),
		Prober:   volume.Prober{},
		Kernel:   volume.NewKernelLog(executor, cfg.DmesgWindow),
	}
}

// CheckDependencies checks for required system commands
func (ctx *GlobalContext) CheckDependencies() error {
	deps := []string{
		"blkid",
		"mount",
		"umount",
		"ntfsfix",
		"dmesg",
	}
	return ctx.Executor.CheckDependencies(deps)
}
