package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"forge/internal/diag"
)

// TestResult reports one compiled-and-executed test source.
type TestResult struct {
	Name        string
	SourcePath  string
	Passed      bool
	BuildFailed bool
	ExitCode    int
	Output      string // compiler log on build failure, program output otherwise
	Diagnostics []diag.Diagnostic
}

// Test compiles every tests/*.cpp into target/<profile>/tests/<name> and
// runs it. A test passes when it builds and exits zero.
func Test(ctx context.Context, req *BuildRequest) ([]TestResult, error) {
	if req == nil || req.Manifest == nil {
		return nil, fmt.Errorf("missing build request")
	}
	profile := req.Profile
	if profile == "" {
		profile = "debug"
	}

	testsDir := filepath.Join(req.Manifest.Root, "tests")
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		return nil, fmt.Errorf("no tests directory: %w", err)
	}
	var sources []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".cpp") {
			sources = append(sources, filepath.Join(testsDir, e.Name()))
		}
	}
	sort.Strings(sources)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no *.cpp tests under %s", testsDir)
	}

	outputDir := filepath.Join(req.Manifest.Root, "target", profile, "tests")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create test output dir: %w", err)
	}

	includeDirs := append([]string{filepath.Join(req.Manifest.Root, "src")}, req.IncludeDirs...)

	results := make([]TestResult, 0, len(sources))
	for _, src := range sources {
		name := strings.TrimSuffix(filepath.Base(src), ".cpp")
		binary := filepath.Join(outputDir, name)
		res := TestResult{Name: name, SourcePath: src}

		start := time.Now()
		emitEvent(req.Progress, src, StageTest, StatusWorking, nil, 0)

		args := compileArgs(req.Manifest, profile, includeDirs, []string{src}, binary)
		// #nosec G204 -- compiler and flags come from the project manifest
		cmd := exec.CommandContext(ctx, req.Manifest.Compiler(), args...)
		cmd.Dir = req.Manifest.Root
		out, buildErr := cmd.CombinedOutput()
		if buildErr != nil {
			res.BuildFailed = true
			res.Output = string(out)
			res.Diagnostics = ParseDiagnostics(res.Output)
			emitEvent(req.Progress, src, StageTest, StatusError, buildErr, time.Since(start))
			results = append(results, res)
			continue
		}

		runRes, runErr := Run(ctx, binary, nil, nil)
		res.Output = runRes.Output
		res.ExitCode = runRes.ExitCode
		res.Passed = runErr == nil && runRes.ExitCode == 0
		status := StatusDone
		if !res.Passed {
			status = StatusError
		}
		emitEvent(req.Progress, src, StageTest, status, runErr, time.Since(start))
		results = append(results, res)
	}
	return results, nil
}
