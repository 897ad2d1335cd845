package buildpipeline

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// RunResult captures one execution of a built binary. Output is the fully
// buffered combined stdout+stderr — именно этот блоб получает детектор
// крашей.
type RunResult struct {
	ExitCode int
	Output   string
}

// Run executes the binary and captures its combined output. A non-zero exit
// code is reported in RunResult, not as an error; errors mean the process
// could not be started at all.
func Run(ctx context.Context, binary string, args []string, sink ProgressSink) (RunResult, error) {
	start := time.Now()
	emitEvent(sink, binary, StageRun, StatusWorking, nil, 0)

	// #nosec G204 -- binary is the artefact we just built
	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.CombinedOutput()
	res := RunResult{Output: string(out)}
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			emitEvent(sink, binary, StageRun, StatusError, err, elapsed)
			return res, nil
		}
		emitEvent(sink, binary, StageRun, StatusError, err, elapsed)
		return res, err
	}
	emitEvent(sink, binary, StageRun, StatusDone, nil, elapsed)
	return res, nil
}
