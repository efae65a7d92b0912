package main

import (
	"os"
	"sync"

	"github.com/nace/krpa/internal/cli"
	"github.com/nace/krpa/internal/config"
	"github.com/nace/krpa/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	debug   bool
	dryRun  bool
	cfgFile string

	ctx  *cli.GlobalContext
	once sync.Once
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "krpa",
	Short: "Krpa - NTFS fstab volume remediation",
	Long: `Krpa inspects the NTFS volumes listed in /etc/fstab, detects unmounted
or kernel-reported error states, repairs them with ntfsfix and remounts
them. It is meant to run as a one-shot systemd service but works as a
plain CLI too.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Rebuild context components with parsed flag values
		var err error
		once.Do(func() {
			var cfg *config.Config
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return
			}
			*ctx = *cli.NewGlobalContext(cfg, verbose, quiet, noColor, debug, dryRun)
			ui.DisableColorIfPiped(noColor)
		})
		return err
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (suppress non-warning output)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug mode (show commands)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Log intended actions without executing them")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default "+config.DefaultPath+")")

	// Create initial context with default values
	// Will be updated in PersistentPreRunE with parsed flag values
	ctx = cli.NewGlobalContext(config.Default(), false, false, false, false, false)

	// Register commands
	rootCmd.AddCommand(cli.NewRunCommand(ctx, &dryRun))
	rootCmd.AddCommand(cli.NewCheckCommand(ctx))
	rootCmd.AddCommand(cli.NewInstallCommand(ctx))

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
