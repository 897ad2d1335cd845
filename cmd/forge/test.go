package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"forge/internal/buildpipeline"
	"forge/internal/diag"
	"forge/internal/diagfmt"
	"forge/internal/explain"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Build and run the project tests",
	Long: `Compile every tests/*.cpp into its own binary and run it. A test passes
when it builds and exits zero. Build failures and crashes are explained.`,
	Args: cobra.NoArgs,
	RunE: runTestCmd,
}

func init() {
	testCmd.Flags().String("profile", "debug", "build profile (debug|release)")
}

func runTestCmd(cmd *cobra.Command, args []string) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	s, err := projectStore(manifest)
	if err != nil {
		return err
	}
	profile, _ := cmd.Flags().GetString("profile")
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}

	results, err := buildpipeline.Test(cmd.Context(), &buildpipeline.BuildRequest{
		Manifest:    manifest,
		Profile:     profile,
		IncludeDirs: dependencyIncludes(manifest, s),
	})
	if err != nil {
		return err
	}

	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	if !colorOn {
		pass.DisableColor()
		fail.DisableColor()
	}

	failed := 0
	rc := explain.NewContext(os.Stderr, colorOn)
	for _, r := range results {
		if r.Passed {
			pass.Fprintf(os.Stdout, "PASS")
			fmt.Fprintf(os.Stdout, " %s\n", r.Name)
			continue
		}
		failed++
		fail.Fprintf(os.Stdout, "FAIL")
		fmt.Fprintf(os.Stdout, " %s\n", r.Name)

		switch {
		case r.BuildFailed:
			explainTestBuildFailure(rc, r, colorOn)
		case explain.TryExplainCrash(rc, r.Output, r.SourcePath):
			// Крэш распознан и объяснён.
		default:
			fmt.Fprint(os.Stderr, r.Output)
			fmt.Fprintf(os.Stderr, "test %s exited with code %d\n", r.Name, r.ExitCode)
		}
	}

	if !isQuiet(cmd) {
		fmt.Fprintf(os.Stdout, "\n%d passed, %d failed\n", len(results)-failed, failed)
	}
	if failed > 0 {
		return silentExit(cmd)
	}
	return nil
}

func explainTestBuildFailure(rc *explain.Context, r buildpipeline.TestResult, colorOn bool) {
	if len(r.Diagnostics) == 0 {
		fmt.Fprint(os.Stderr, r.Output)
		return
	}
	for i, d := range r.Diagnostics {
		if i > 0 {
			fmt.Fprintln(os.Stderr)
		}
		if explain.TryExplain(d, rc, explainRules) {
			continue
		}
		diagfmt.Pretty(os.Stderr, []diag.Diagnostic{d}, diagfmt.PrettyOpts{
			Color:   colorOn,
			Context: 2,
		})
	}
}
