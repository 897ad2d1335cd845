package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"forge/internal/diag"
	"forge/internal/project"
)

// ErrCompileFailed signals that the compiler exited non-zero. Structured
// diagnostics and the raw log live in the BuildResult; вызывающая сторона
// сама решает, как их показывать.
var ErrCompileFailed = errors.New("compilation failed")

// BuildRequest configures one compile-and-link invocation.
type BuildRequest struct {
	Manifest      *project.Manifest
	Profile       string   // debug (default) or release
	IncludeDirs   []string // extra -I paths, e.g. installed store packages
	Progress      ProgressSink
	PrintCommands bool
	NoCache       bool
	SyntaxOnly    bool // -fsyntax-only: проверяем, но бинарник не собираем
}

// BuildResult captures build artefacts, diagnostics and timings.
type BuildResult struct {
	OutputPath  string
	RawLog      string // full captured compiler output
	Diagnostics []diag.Diagnostic
	Timings     Timings
	Cached      bool
}

// Build configures and compiles the project into target/<profile>/<name>.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil || req.Manifest == nil {
		return result, fmt.Errorf("missing build request")
	}
	profile := req.Profile
	if profile == "" {
		profile = "debug"
	}

	confStart := time.Now()
	emitEvent(req.Progress, "", StageConfigure, StatusWorking, nil, 0)
	files, err := req.Manifest.SourceFiles()
	if err != nil {
		emitEvent(req.Progress, "", StageConfigure, StatusError, err, time.Since(confStart))
		return result, err
	}

	outputDir := filepath.Join(req.Manifest.Root, "target", profile)
	outputPath := filepath.Join(outputDir, req.Manifest.OutputName())
	if req.SyntaxOnly {
		outputPath = ""
	}
	result.OutputPath = outputPath

	args := compileArgs(req.Manifest, profile, req.IncludeDirs, files, outputPath)
	result.Timings.Set(StageConfigure, time.Since(confStart))
	emitEvent(req.Progress, "", StageConfigure, StatusDone, nil, time.Since(confStart))

	cache := NewSignatureCache(filepath.Join(req.Manifest.Root, "target", ".sig"))
	var key string
	if !req.NoCache && !req.SyntaxOnly {
		if key, err = cache.Key(req.Manifest.Compiler(), args, files); err != nil {
			key = "" // не смогли посчитать подпись — просто собираем
		} else if cache.UpToDate(key, outputPath) {
			result.Cached = true
			emitEvent(req.Progress, "", StageCompile, StatusDone, nil, 0)
			return result, nil
		}
	}

	start := time.Now()
	for _, f := range files {
		emitEvent(req.Progress, f, StageCompile, StatusWorking, nil, 0)
	}
	if !req.SyntaxOnly {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			emitEvent(req.Progress, "", StageCompile, StatusError, err, time.Since(start))
			return result, fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	if req.PrintCommands {
		fmt.Fprintln(os.Stderr, commandLine(req.Manifest.Compiler(), args))
	}
	// #nosec G204 -- compiler and flags come from the project manifest
	cmd := exec.CommandContext(ctx, req.Manifest.Compiler(), args...)
	cmd.Dir = req.Manifest.Root
	out, runErr := cmd.CombinedOutput()
	elapsed := time.Since(start)

	result.RawLog = string(out)
	result.Diagnostics = ParseDiagnostics(result.RawLog)
	result.Timings.Set(StageCompile, elapsed)

	if runErr != nil {
		for _, f := range files {
			emitEvent(req.Progress, f, StageCompile, StatusError, runErr, elapsed)
		}
		return result, fmt.Errorf("%s: %w", req.Manifest.Compiler(), ErrCompileFailed)
	}
	for _, f := range files {
		emitEvent(req.Progress, f, StageCompile, StatusDone, nil, elapsed)
	}
	if key != "" {
		// Ошибка записи подписи не фатальна: следующая сборка просто не
		// попадёт в кеш.
		_ = cache.Store(key, outputPath)
	}
	return result, nil
}

// compileArgs assembles one compile-and-link command. Пустой outputPath
// означает проверку без линковки.
func compileArgs(m *project.Manifest, profile string, includeDirs, files []string, outputPath string) []string {
	args := []string{"-std=" + m.Std()}
	if profile == "release" {
		args = append(args, "-O2", "-DNDEBUG")
	} else {
		args = append(args, "-g", "-O0")
	}
	args = append(args, m.Config.Build.Flags...)
	for _, dir := range includeDirs {
		args = append(args, "-I"+dir)
	}
	if outputPath == "" {
		args = append(args, "-fsyntax-only")
	}
	args = append(args, files...)
	if outputPath != "" {
		args = append(args, "-o", outputPath)
	}
	return args
}

func commandLine(compiler string, args []string) string {
	line := compiler
	for _, a := range args {
		line += " " + a
	}
	return line
}
