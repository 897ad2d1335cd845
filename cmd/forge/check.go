package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forge/internal/buildpipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Type-check the project without producing a binary",
	Long: `Run the compiler in syntax-only mode over the project sources and explain
every diagnostic it reports. No artefacts are written.`,
	Args: cobra.NoArgs,
	RunE: runCheckCmd,
}

func init() {
	checkCmd.Flags().String("profile", "debug", "build profile (debug|release)")
	checkCmd.Flags().Bool("print-commands", false, "print compiler invocations")
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	manifest, err := loadManifest()
	if err != nil {
		return err
	}
	s, err := projectStore(manifest)
	if err != nil {
		return err
	}

	profile, _ := cmd.Flags().GetString("profile")
	printCommands, _ := cmd.Flags().GetBool("print-commands")

	res, err := buildpipeline.Build(cmd.Context(), &buildpipeline.BuildRequest{
		Manifest:      manifest,
		Profile:       profile,
		IncludeDirs:   dependencyIncludes(manifest, s),
		PrintCommands: printCommands,
		SyntaxOnly:    true,
	})
	if errors.Is(err, buildpipeline.ErrCompileFailed) {
		return reportCompileFailure(cmd, res)
	}
	if err != nil {
		return err
	}

	printTimings(cmd, res.Timings)
	if !isQuiet(cmd) {
		fmt.Fprintln(os.Stdout, "no problems found")
	}
	return nil
}
