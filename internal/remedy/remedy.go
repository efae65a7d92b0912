package remedy

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nace/krpa/internal/fstab"
	"github.com/nace/krpa/internal/system"
	"github.com/nace/krpa/internal/volume"
)

// Status classifies what happened to a single fstab entry
type Status int

const (
	// StatusSkipped means the entry never qualified: device missing, not a
	// block device, or not actually NTFS.
	StatusSkipped Status = iota
	// StatusHealthy means the volume was mounted with a clean kernel log
	// and was left alone.
	StatusHealthy
	// StatusRepaired means remediation ran and the volume ended up mounted.
	StatusRepaired
	// StatusFailed means remediation ran but repair or remount failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusHealthy:
		return "healthy"
	case StatusRepaired:
		return "repaired"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome for one fstab entry
type Result struct {
	Entry  fstab.Entry
	Device string // resolved device path
	Status Status
	Fixed  bool // ntfsfix reported success
	Err    error
}

// Summary aggregates results over one run
type Summary struct {
	TotalNTFS int
	Fixed     int
	Errors    int
}

// Recorder is the logging capability the remediator needs. *ui.Logger
// satisfies it; tests substitute a no-op.
type Recorder interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Deps are the collaborators a Remediator works through
type Deps struct {
	Runner   system.Runner
	Log      Recorder
	Resolver *volume.Resolver
	Mounts   *volume.MountManager
	Prober   volume.MountProber
	Kernel   *volume.KernelLog

	MarkerFile   string
	FallbackType string
	NTFSAliases  []string
	DryRun       bool

	// Now and IsBlock are swappable for tests; they default to time.Now
	// and volume.IsBlockDevice.
	Now     func() time.Time
	IsBlock func(path string) bool
}

// Remediator walks NTFS fstab entries, repairs unhealthy ones and remounts
// them. Nothing it does is fatal to the overall run: every failure is
// logged, counted and stepped over.
type Remediator struct {
	deps Deps
}

// New creates a remediator
func New(deps Deps) *Remediator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.IsBlock == nil {
		deps.IsBlock = volume.IsBlockDevice
	}
	return &Remediator{deps: deps}
}

// Sweep processes every entry, then performs the catch-all mount and
// writes the last-run marker. It always completes.
func (r *Remediator) Sweep(entries []fstab.Entry) (Summary, []Result) {
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		results = append(results, r.ProcessEntry(entry))
	}
	summary := Aggregate(results)

	r.deps.Log.Info("Running catch-all mount of remaining fstab entries...")
	if err := r.deps.Mounts.MountAll(); err != nil {
		r.deps.Log.Warning("Catch-all mount failed: %v", err)
	}

	r.deps.Log.Info("NTFS volumes processed: %d, repaired: %d, errors: %d",
		summary.TotalNTFS, summary.Fixed, summary.Errors)

	if err := r.WriteMarker(); err != nil {
		r.deps.Log.Warning("Failed to write last-run marker: %v", err)
	}

	return summary, results
}

// ProcessEntry inspects one fstab entry and remediates it if needed
func (r *Remediator) ProcessEntry(entry fstab.Entry) Result {
	log := r.deps.Log
	log.Info("Processing %s (%s)", entry.Device, entry.MountPoint)

	device := r.deps.Resolver.Resolve(entry.Device)
	if device != entry.Device {
		log.Debug("Resolved %s to %s", entry.Device, device)
	}

	result := Result{Entry: entry, Device: device, Status: StatusSkipped}

	if !r.deps.IsBlock(device) {
		log.Warning("Device not found or not a block device, skipping: %s", device)
		return result
	}

	fsType, err := r.deps.Resolver.FSType(device)
	if err != nil {
		log.Warning("Could not probe filesystem type, skipping %s: %v", device, err)
		return result
	}
	if !fstab.IsNTFSType(fsType, r.deps.NTFSAliases) {
		log.Info("Not an NTFS volume (type %q), skipping: %s", fsType, device)
		return result
	}

	mounted, err := r.deps.Prober.Mounted(entry.MountPoint)
	if err != nil {
		// a missing or unreadable mount point means nothing is mounted there
		log.Debug("Mount probe for %s: %v", entry.MountPoint, err)
		mounted = false
	}

	if mounted {
		dirty, err := r.deps.Kernel.HasErrors(device)
		if err != nil {
			log.Warning("Kernel log scan failed for %s: %v", device, err)
			dirty = false
		}
		if !dirty {
			log.Info("%s is mounted and healthy", entry.MountPoint)
			result.Status = StatusHealthy
			return result
		}
		log.Warning("Kernel log reports NTFS errors for %s", filepath.Base(device))
	} else {
		log.Warning("%s is not mounted", entry.MountPoint)
	}

	return r.remediate(result, mounted)
}

// remediate unmounts, repairs and remounts one volume. The incoming result
// already carries the entry and resolved device.
func (r *Remediator) remediate(result Result, mounted bool) Result {
	log := r.deps.Log
	entry := result.Entry
	result.Status = StatusFailed

	if mounted {
		log.Info("Unmounting %s...", entry.MountPoint)
		if err := r.deps.Mounts.Unmount(entry.MountPoint); err != nil {
			// proceed anyway; ntfsfix refuses mounted volumes on its own
			log.Warning("Unmount failed: %v", err)
		}
	}

	log.Info("Running ntfsfix on %s...", result.Device)
	if err := r.deps.Runner.Run("ntfsfix", result.Device); err != nil {
		log.Error("ntfsfix failed on %s: %v", result.Device, err)
		result.Err = err
		return result
	}
	result.Fixed = true

	log.Info("Mounting %s...", entry.MountPoint)
	if err := r.deps.Mounts.MountEntry(entry.MountPoint); err != nil {
		log.Warning("Mount via fstab failed: %v", err)
		if err := r.deps.Mounts.MountWithType(result.Device, entry.MountPoint, r.deps.FallbackType); err != nil {
			log.Error("Mount failed for %s: %v", entry.MountPoint, err)
			result.Err = err
			return result
		}
	}

	result.Status = StatusRepaired
	log.Success("Remediated %s (%s)", entry.MountPoint, result.Device)
	return result
}

// WriteMarker records the current time at the marker path, overwriting the
// previous run's marker.
func (r *Remediator) WriteMarker() error {
	if r.deps.DryRun {
		r.deps.Log.Info("[DRY RUN] would write last-run marker to %s", r.deps.MarkerFile)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.deps.MarkerFile), 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}
	stamp := r.deps.Now().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(r.deps.MarkerFile, []byte(stamp), 0644); err != nil {
		return fmt.Errorf("failed to write marker: %w", err)
	}
	return nil
}

// Aggregate folds per-entry results into run counters. Skipped entries do
// not count as NTFS volumes; an entry counts as an error when remediation
// was needed, whether or not it succeeded.
func Aggregate(results []Result) Summary {
	var s Summary
	for _, res := range results {
		if res.Status == StatusSkipped {
			continue
		}
		s.TotalNTFS++
		if res.Status == StatusRepaired || res.Status == StatusFailed {
			s.Errors++
		}
		if res.Fixed {
			s.Fixed++
		}
	}
	return s
}
