package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"forge/internal/buildpipeline"
	"forge/internal/explain"
	"forge/internal/project"
)

var runCmd = &cobra.Command{
	Use:   "run [-- program-args...]",
	Short: "Build and run the project binary",
	Long: `Build the project (reusing the signature cache) and execute the resulting
binary. A crash with an unhandled C++ exception is explained from the captured
program output.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRunCmd,
}

func init() {
	runCmd.Flags().String("profile", "debug", "build profile (debug|release)")
	runCmd.Flags().Bool("no-cache", false, "ignore the build signature cache")
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	s, err := projectStore(manifest)
	if err != nil {
		return err
	}

	profile, _ := cmd.Flags().GetString("profile")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	buildRes, err := buildpipeline.Build(cmd.Context(), &buildpipeline.BuildRequest{
		Manifest:    manifest,
		Profile:     profile,
		IncludeDirs: dependencyIncludes(manifest, s),
		NoCache:     noCache,
	})
	if errors.Is(err, buildpipeline.ErrCompileFailed) {
		return reportCompileFailure(cmd, buildRes)
	}
	if err != nil {
		return err
	}

	runRes, err := buildpipeline.Run(cmd.Context(), buildRes.OutputPath, args, nil)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", buildRes.OutputPath, err)
	}

	if runRes.ExitCode == 0 {
		fmt.Fprint(os.Stdout, runRes.Output)
		printTimings(cmd, buildRes.Timings)
		return nil
	}

	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}
	rc := explain.NewContext(os.Stderr, colorOn)
	if !explain.TryExplainCrash(rc, runRes.Output, mainSourceFile(manifest)) {
		// Не похоже на необработанное исключение - показываем вывод как есть.
		fmt.Fprint(os.Stderr, runRes.Output)
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(os.Stderr, "process exited with code %d\n", runRes.ExitCode)
	}
	return silentExit(cmd)
}

// mainSourceFile picks the source file most likely to hold the entry point:
// a file named main.* when present, otherwise the first source.
func mainSourceFile(manifest *project.Manifest) string {
	files, err := manifest.SourceFiles()
	if err != nil || len(files) == 0 {
		return ""
	}
	for _, f := range files {
		base := filepath.Base(f)
		if strings.TrimSuffix(base, filepath.Ext(base)) == "main" {
			return f
		}
	}
	return files[0]
}
