package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/cheatsheet/internal/app"
	"github.com/quantmind-br/cheatsheet/internal/config"
	"github.com/quantmind-br/cheatsheet/internal/output"
	"github.com/quantmind-br/cheatsheet/internal/utils"
	"github.com/quantmind-br/cheatsheet/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	execLookPath = exec.LookPath
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cheatsheet [source-file ...]",
	Short: "Generate cheatsheets from project documentation",
	Long: `Cheatsheet clones documentation repositories, extracts their docs and
asks the Gemini API to condense them into one Markdown cheatsheet per project.

Each source file is a JSON or YAML object with "name", "repo" and "path".
Bare file names are looked up in the sources directory. Without arguments a
single source is read from REPO_URL, PROJECT_NAME and DOCS_PATH.`,
	Version:       version.Short(),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cheatsheet/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputDir, "Output directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().String("sources-dir", config.DefaultSourcesDir, "Directory for bare source file names")
	rootCmd.Flags().String("workspace-dir", "", "Directory for temporary clones (default is the system temp dir)")
	rootCmd.Flags().String("clone-method", config.DefaultCloneMethod, "Clone method: git or go-git")
	rootCmd.Flags().String("extractor", config.DefaultExtractTool, "Extraction tool, or \"builtin\"")
	rootCmd.Flags().String("model", config.DefaultModel, "Gemini model")
	rootCmd.Flags().Bool("progress", false, "Show a progress bar")

	_ = viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("sources.directory", rootCmd.Flags().Lookup("sources-dir"))
	_ = viper.BindPFlag("workspace.root", rootCmd.Flags().Lookup("workspace-dir"))
	_ = viper.BindPFlag("clone.method", rootCmd.Flags().Lookup("clone-method"))
	_ = viper.BindPFlag("extract.tool", rootCmd.Flags().Lookup("extractor"))
	_ = viper.BindPFlag("generation.model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("progress", rootCmd.Flags().Lookup("progress"))

	versionCmd.Flags().Bool("json", false, "Print version information as JSON")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(viper.GetViper(), cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Verbose: verbose,
	})

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Handle graceful shutdown: the current source finishes, the rest are skipped
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Interrupt received, stopping after the current source")
			cancel()
		case <-ctx.Done():
		}
	}()

	orchestrator, err := app.NewOrchestrator(ctx, app.OrchestratorOptions{
		Config:         cfg,
		Verbose:        verbose,
		Logger:         log,
		ProgressOutput: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	// Per-source failures are reported in the summary and do not change the exit code
	_, err = orchestrator.Run(ctx, args)
	return err
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that git, the extraction tool, the API key and the output directory are usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfg, err := config.LoadFrom(viper.GetViper(), cfgFile)
		if err != nil {
			fmt.Fprintf(out, "Config: FAILED (%v), using defaults\n", err)
			cfg = config.Default()
		}

		if runDoctor(cfg, out) {
			fmt.Fprintln(out, "All critical checks passed!")
		} else {
			fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// runDoctor prints one line per check and reports whether all critical checks passed
func runDoctor(cfg *config.Config, out io.Writer) bool {
	fmt.Fprintln(out, "Checking system dependencies...")
	allPassed := true

	fmt.Fprint(out, "  git: ")
	if path, err := execLookPath("git"); err == nil {
		fmt.Fprintf(out, "OK (%s)\n", path)
	} else if cfg.Clone.Method == config.CloneMethodGoGit {
		fmt.Fprintln(out, "NOT FOUND (not needed with the go-git clone method)")
	} else {
		fmt.Fprintln(out, "FAILED (install git or use --clone-method go-git)")
		allPassed = false
	}

	fmt.Fprint(out, "  Extraction tool: ")
	if cfg.Extract.Tool == config.ExtractToolBuiltin {
		fmt.Fprintln(out, "OK (builtin)")
	} else if path, err := execLookPath(cfg.Extract.Tool); err == nil {
		fmt.Fprintf(out, "OK (%s)\n", path)
	} else {
		fmt.Fprintf(out, "FAILED (%s not installed, or use --extractor builtin)\n", cfg.Extract.Tool)
		allPassed = false
	}

	fmt.Fprint(out, "  API key: ")
	if cfg.Generation.APIKey != "" {
		fmt.Fprintf(out, "OK (model %s)\n", cfg.Generation.Model)
	} else {
		fmt.Fprintf(out, "FAILED (set %s)\n", config.EnvAPIKey)
		allPassed = false
	}

	outDir := utils.ExpandPath(cfg.Output.Directory)
	fmt.Fprint(out, "  Output directory: ")
	writer := output.NewWriter(output.WriterOptions{BaseDir: outDir})
	if err := writer.CheckWritable(); err == nil {
		count, size, _ := writer.Stats()
		fmt.Fprintf(out, "OK (%s, %d cheatsheets, %d bytes)\n", outDir, count, size)
	} else {
		fmt.Fprintf(out, "FAILED (%v)\n", err)
		allPassed = false
	}

	srcDir := utils.ExpandPath(cfg.Sources.Directory)
	fmt.Fprint(out, "  Sources directory: ")
	if utils.PathExists(srcDir) {
		fmt.Fprintf(out, "OK (%s)\n", srcDir)
	} else {
		fmt.Fprintf(out, "WARN (%s not found, bare file names will not resolve)\n", srcDir)
	}

	fmt.Fprint(out, "  Config file: ")
	if path := config.ConfigFilePath(); utils.PathExists(path) {
		fmt.Fprintf(out, "OK (%s)\n", path)
	} else {
		fmt.Fprintf(out, "none (%s not found, using defaults)\n", path)
	}

	fmt.Fprintln(out)
	return allPassed
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		return nil
	},
}
