package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forge/internal/buildpipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the current project",
	Long: `Compile the project described by forge.toml into target/<profile>.
Unchanged projects are skipped via a content-hash signature cache.`,
	Args: cobra.NoArgs,
	RunE: runBuildCmd,
}

func init() {
	buildCmd.Flags().String("profile", "debug", "build profile (debug|release)")
	buildCmd.Flags().Bool("no-cache", false, "ignore the build signature cache")
	buildCmd.Flags().Bool("print-commands", false, "print compiler invocations")
	buildCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
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
	printCommands, _ := cmd.Flags().GetBool("print-commands")
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	req := &buildpipeline.BuildRequest{
		Manifest:      manifest,
		Profile:       profile,
		IncludeDirs:   dependencyIncludes(manifest, s),
		PrintCommands: printCommands,
		NoCache:       noCache,
	}

	var res buildpipeline.BuildResult
	if shouldUseTUI(mode) && !printCommands {
		files, ferr := manifest.SourceFiles()
		if ferr != nil {
			return ferr
		}
		res, err = runBuildWithUI(cmd.Context(), "building "+manifest.Config.Package.Name, files, req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}

	if errors.Is(err, buildpipeline.ErrCompileFailed) {
		return reportCompileFailure(cmd, res)
	}
	if err != nil {
		return err
	}

	printTimings(cmd, res.Timings)
	if !isQuiet(cmd) {
		if res.Cached {
			fmt.Fprintf(os.Stdout, "%s is up to date\n", res.OutputPath)
		} else {
			fmt.Fprintf(os.Stdout, "built %s\n", res.OutputPath)
		}
	}
	return nil
}
