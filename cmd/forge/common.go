package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"forge/internal/buildpipeline"
	"forge/internal/diag"
	"forge/internal/diagfmt"
	"forge/internal/explain"
	"forge/internal/project"
	"forge/internal/store"
)

// Правила создаются один раз на процесс: они неизменяемы и безопасны для
// повторного использования между диагностиками.
var explainRules = explain.DefaultRules()

// useColor resolves the persistent --color flag against the terminal.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (use auto|on|off)", mode)
	}
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

// loadManifest находит ближайший forge.toml вверх по дереву от текущей
// директории.
func loadManifest() (*project.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, ok, err := project.LoadFrom(wd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no %s found in %s or any parent directory\nrun 'forge init <name>' to create a project", project.ManifestName, wd)
	}
	return manifest, nil
}

// projectStore opens the package store that lives next to the manifest.
func projectStore(manifest *project.Manifest) (*store.Store, error) {
	return store.Open(filepath.Join(manifest.Root, ".forge", "store"))
}

// dependencyIncludes collects -I paths for every manifest dependency that is
// installed in the store. Отсутствующая зависимость — предупреждение, не
// ошибка: компилятор сам скажет, какого заголовка не хватает.
func dependencyIncludes(manifest *project.Manifest, s *store.Store) []string {
	if len(manifest.Config.Deps) == 0 {
		return nil
	}
	names := make([]string, 0, len(manifest.Config.Deps))
	for name := range manifest.Config.Deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var dirs []string
	for _, name := range names {
		if dir, ok := s.IncludePath(name); ok {
			dirs = append(dirs, dir)
			continue
		}
		fmt.Fprintf(os.Stderr, "warning: dependency %q is not installed (see 'forge store add')\n", name)
	}
	return dirs
}

// reportCompileFailure explains parsed diagnostics one by one and falls back
// to the raw compiler log when nothing was parsed at all.
func reportCompileFailure(cmd *cobra.Command, res buildpipeline.BuildResult) error {
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	diags := res.Diagnostics
	if len(diags) == 0 {
		// Лог не распарсился ни в одну диагностику - отдаём его как есть.
		fmt.Fprint(os.Stderr, res.RawLog)
		return silentExit(cmd)
	}
	truncated := 0
	if maxDiags > 0 && len(diags) > maxDiags {
		truncated = len(diags) - maxDiags
		diags = diags[:maxDiags]
	}

	rc := explain.NewContext(os.Stderr, colorOn)
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(os.Stderr)
		}
		if explain.TryExplain(d, rc, explainRules) {
			continue
		}
		// Нераспознанная диагностика: обычная строка плюс фрагмент кода.
		diagfmt.Pretty(os.Stderr, []diag.Diagnostic{d}, diagfmt.PrettyOpts{
			Color:   colorOn,
			Context: 2,
		})
	}
	if truncated > 0 {
		fmt.Fprintf(os.Stderr, "\n... and %d more diagnostics (raise --max-diagnostics to see them)\n", truncated)
	}
	return silentExit(cmd)
}

// silentExit makes the command exit non-zero without cobra printing anything:
// the diagnostics above are the whole message.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("") // Silent error - diagnostics already printed
}

func printTimings(cmd *cobra.Command, t buildpipeline.Timings) {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !timings {
		return
	}
	for _, stage := range []buildpipeline.Stage{
		buildpipeline.StageConfigure,
		buildpipeline.StageCompile,
		buildpipeline.StageTest,
		buildpipeline.StageRun,
	} {
		if d := t.Duration(stage); d > 0 {
			fmt.Fprintf(os.Stderr, "%-10s %s\n", string(stage)+":", d.Round(time.Millisecond))
		}
	}
}
