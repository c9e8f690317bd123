// Package main implements the cscriptc CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cscript/internal/buildpipeline"
	"cscript/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.csc…]",
	Short: "Build C-Script translation units",
	Long:  "Lower the given .csc files to C and compile each into its artifact.\nWith no arguments, cscript.toml defines the entrypoint.",
	Args:  cobra.ArbitraryArgs,
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output artifact path (overrides @out)")
	buildCmd.Flags().String("opt", "", "optimization level (overrides @opt)")
	buildCmd.Flags().String("profile", "", "profile mode on|off|auto (overrides @profile)")
	buildCmd.Flags().String("cc", "", "preferred C compiler binary")
	buildCmd.Flags().Duration("profile-timeout", buildpipeline.DefaultProfileTimeout, "instrumented run deadline")
	buildCmd.Flags().String("ui", "auto", "animated progress (auto|on|off)")
	buildCmd.Flags().Bool("keep-tmp", false, "preserve intermediate files")
	buildCmd.Flags().Bool("print-commands", false, "print toolchain commands")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	outFlag, err := flags.GetString("out")
	if err != nil {
		return err
	}
	optFlag, err := flags.GetString("opt")
	if err != nil {
		return err
	}
	profileFlag, err := flags.GetString("profile")
	if err != nil {
		return err
	}
	ccFlag, err := flags.GetString("cc")
	if err != nil {
		return err
	}
	profileTimeout, err := flags.GetDuration("profile-timeout")
	if err != nil {
		return err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	keepTmp, err := flags.GetBool("keep-tmp")
	if err != nil {
		return err
	}
	printCommands, err := flags.GetBool("print-commands")
	if err != nil {
		return err
	}

	// Значения флагов валидируются один раз, до запуска юнитов.
	var optLevel config.OptLevel
	if optFlag != "" {
		if optLevel, err = config.ParseOptLevel(optFlag); err != nil {
			return fmt.Errorf("--opt: %w", err)
		}
	}
	var profileMode config.ProfileMode
	if profileFlag != "" {
		if profileMode, err = config.ParseProfileMode(profileFlag); err != nil {
			return fmt.Errorf("--profile: %w", err)
		}
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	files := args
	manifestOut := ""
	if len(files) == 0 {
		manifest, found, manifestErr := loadProjectManifest(".")
		if manifestErr != nil {
			return manifestErr
		}
		if !found {
			return errors.New(noCscriptTomlMessage)
		}
		mainPath, outPath, targetErr := resolveManifestTarget(manifest)
		if targetErr != nil {
			return targetErr
		}
		files = []string{mainPath}
		manifestOut = outPath
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	opts := unitOptions{
		maxDiagnostics: maxDiagnostics,
		profileTimeout: profileTimeout,
		keepTmp:        keepTmp,
		printCommands:  printCommands,
	}
	if manifestOut != "" {
		opts.seed = func(cfg *config.Config) { cfg.Out = manifestOut }
	}
	opts.overrides = func(cfg *config.Config) {
		if outFlag != "" {
			cfg.Out = outFlag
		}
		if optFlag != "" {
			cfg.Opt = optLevel
		}
		if profileFlag != "" {
			cfg.Profile = profileMode
		}
		if ccFlag != "" {
			cfg.CCPrefer = ccFlag
		}
	}

	results := make([]*unitResult, len(files))
	runAll := func(ctx context.Context, sink buildpipeline.ProgressSink) error {
		group, ctx := errgroup.WithContext(ctx)
		group.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range files {
			i, path := i, path
			unitOpts := opts
			unitOpts.progress = sink
			group.Go(func() error {
				res, unitErr := buildUnit(ctx, path, unitOpts)
				results[i] = res
				return unitErr
			})
		}
		return group.Wait()
	}

	animReq := false
	if uiModeValue == uiModeAuto {
		animReq = animRequested(files)
	}

	var buildErr error
	if shouldUseTUI(uiModeValue, animReq) {
		buildErr = runBuildsWithUI(cmd.Context(), "cscriptc build", files, runAll)
	} else {
		buildErr = runAll(cmd.Context(), nil)
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		reportUnit(cmd, res, quiet, timings)
	}
	return buildErr
}

// reportUnit печатает диагностики юнита и итоговые строки.
func reportUnit(cmd *cobra.Command, res *unitResult, quiet, timings bool) {
	printDiagnostics(cmd, res.Bag, res.Files)
	if quiet {
		return
	}
	if res.Build.State == buildpipeline.StateDone {
		fmt.Fprintf(os.Stdout, "built %s\n", res.Build.OutputPath)
		if res.Build.Profiled {
			fmt.Fprintf(os.Stdout, "profiled %s: %d hot functions\n", res.Path, len(res.Build.Hot))
		}
	}
	printStageTimings(os.Stdout, res.Build.Timings)
	if timings && res.Timer != nil {
		fmt.Fprint(os.Stdout, res.Timer.Summary())
	}
}
