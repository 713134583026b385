// Package main provides the Glide updater entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/glidesoft/glide-updater/internal/config"
	"github.com/glidesoft/glide-updater/internal/console"
	"github.com/glidesoft/glide-updater/internal/i18n"
	"github.com/glidesoft/glide-updater/internal/logging"
	"github.com/glidesoft/glide-updater/internal/updater"
	"github.com/glidesoft/glide-updater/internal/version"
)

var (
	configFile string

	targetDir     string
	delaySeconds  uint64
	langFlag      string
	policyFlag    string
	deletePackage bool
	noAck         bool

	// Config init flags
	initOutput string
	initForce  bool

	rootCmd = &cobra.Command{
		Use:   "glide-updater <package> [inner-path]",
		Short: "Glide application updater",
		Long: `Glide updater extracts an update package and merges its payload into
the installation directory, staging a replacement for the running
executable where needed.`,
		Args: cobra.MaximumNArgs(2),
		RunE: run,

		SilenceUsage: true,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (flags override file values)")
	rootCmd.Flags().StringVarP(&targetDir, "target", "t", "", "installation directory to update")
	rootCmd.Flags().Uint64Var(&delaySeconds, "delay", 0, "seconds to wait before starting, so the parent process can exit")
	rootCmd.Flags().StringVar(&langFlag, "lang", "", "display language (zh, en)")
	rootCmd.Flags().StringVar(&policyFlag, "policy", "", "self-replace policy (skip, stage)")
	rootCmd.Flags().BoolVar(&deletePackage, "delete-package", false, "delete the update package after a successful run")
	rootCmd.Flags().BoolVar(&noAck, "no-ack", false, "exit without waiting for acknowledgement")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	})

	rootCmd.AddCommand(newFinalizeCommand())
	rootCmd.AddCommand(newConfigCommand())
}

func newFinalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize [dir]",
		Short: "Swap staged executable replacements into place",
		Long: `Finalize swaps every "<name>.new" file under the given directory over
its "<name>" counterpart and removes leftovers from earlier swaps. Run
it at application launch, after a staged update, once the old process
has exited.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			} else if exe, err := os.Executable(); err == nil {
				dir = filepath.Dir(exe)
			}

			if err := updater.FinalizeStaged(dir); err != nil {
				return fmt.Errorf("finalize staged files: %w", err)
			}
			updater.CleanupOld(dir)
			fmt.Printf("Finalized staged files under %s\n", dir)
			return nil
		},
	}
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a sample updater configuration file",
		RunE:  runConfigInit,
	}

	initCmd.Flags().StringVarP(&initOutput, "output", "o", "updater-config.yaml", "output file path")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if !initForce {
		if _, err := os.Stat(initOutput); err == nil {
			return fmt.Errorf("file %s already exists (use --force to overwrite)", initOutput)
		}
	}

	cfg := config.DefaultRunConfig()
	cfg.PackagePath = "/path/to/update.zip"
	cfg.TargetDir = "/path/to/installation"

	if err := config.Save(initOutput, &cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Generated updater configuration: %s\n", initOutput)
	return nil
}

// buildRunConfig merges the config file, positional arguments, and flags
// into one validated run configuration. Flags win over file values.
func buildRunConfig(cmd *cobra.Command, args []string) (config.RunConfig, error) {
	cfg := config.DefaultRunConfig()

	if configFile != "" {
		if err := config.Load(configFile, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(args) > 0 {
		cfg.PackagePath = args[0]
	}
	if len(args) > 1 {
		cfg.InnerPath = args[1]
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetDir = targetDir
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySeconds = delaySeconds
	}
	if cmd.Flags().Changed("lang") {
		cfg.Language = langFlag
	}
	if cmd.Flags().Changed("policy") {
		cfg.SelfReplace = policyFlag
	}
	if cmd.Flags().Changed("delete-package") {
		cfg.DeletePackage = deletePackage
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logging.Close()

	lang, ok := i18n.Parse(cfg.Language)
	if !ok {
		if cfg.Language != "" {
			fmt.Fprintf(os.Stderr, "unknown language %q, using default\n", cfg.Language)
		}
		lang = i18n.Chinese
	}
	dict := i18n.Get(lang)

	delay := time.Duration(cfg.DelaySeconds) * time.Second
	u := updater.New(updater.Options{
		PackagePath:   cfg.PackagePath,
		InnerPath:     cfg.InnerPath,
		TargetDir:     cfg.TargetDir,
		Delay:         delay,
		DeletePackage: cfg.DeletePackage,
		Policy:        updater.ReplacePolicy(cfg.SelfReplace),
	})
	u.Start()

	frontend := console.New(dict, os.Stdout, os.Stdin)
	frontend.WaitForAck = !noAck

	code := frontend.Run(u.Events(), delay)
	logging.Close()
	os.Exit(code)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
