package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"pygamecrafter-server/models"
)

// SandboxService runs untrusted pygame scripts as isolated subprocesses.
type SandboxService struct {
	store     *ScratchStore
	pythonBin string
}

func NewSandboxService(store *ScratchStore, pythonBin string) *SandboxService {
	if pythonBin == "" {
		pythonBin = "python"
	}
	return &SandboxService{store: store, pythonBin: pythonBin}
}

// harnessTemplate wraps user code in an init check and a QUIT-event pump.
// The abort message goes to stderr so the classifier can see it.
// %s receives the user code verbatim; it is never rewritten or inspected.
const harnessTemplate = `import pygame
import sys

# pygame.init() returns (num_successful, num_failed)
if pygame.init() == (0, 0):
    print('Pygame initialization failed', file=sys.stderr)
    sys.exit(1)

%s

running = True
while running:
    for event in pygame.event.get():
        if event.type == pygame.QUIT:
            running = False
    pygame.display.flip()

pygame.quit()
`

func buildHarness(code string) string {
	return fmt.Sprintf(harnessTemplate, code)
}

// sandboxEnv derives the subprocess environment. An SDL_VIDEODRIVER already
// present in the ambient environment wins; otherwise a platform default is
// chosen, with the dummy driver forced on display-less non-Windows hosts so
// the subprocess cannot block waiting for a display that will never appear.
func sandboxEnv() []string {
	env := os.Environ()
	if _, ok := os.LookupEnv("SDL_VIDEODRIVER"); ok {
		return env
	}

	driver := "x11"
	if runtime.GOOS == "windows" {
		driver = "windows"
	} else if os.Getenv("DISPLAY") == "" {
		driver = "dummy"
	}
	return append(env, "SDL_VIDEODRIVER="+driver)
}

// Execute materializes code inside the pygame harness and runs it to
// completion. There is deliberately no timeout: the script is an interactive
// game loop that ends when its window is closed, so completion is keyed to
// process exit. The scratch directory is removed on every exit path.
func (s *SandboxService) Execute(code string) *models.Outcome {
	scriptPath, cleanup, err := s.store.CreateRun(buildHarness(code))
	if err != nil {
		return &models.Outcome{
			Status: models.StatusInitFailure,
			Detail: fmt.Sprintf("Execution failed while preparing your Pygame code.\nDetails: %v", err),
		}
	}
	defer cleanup()

	cmd := exec.Command(s.pythonBin, scriptPath)
	cmd.Env = sandboxEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The interpreter never started (e.g. binary not on PATH).
			return &models.Outcome{
				Status: models.StatusInitFailure,
				Detail: fmt.Sprintf("Execution failed while running your Pygame code.\nDetails: %v", err),
			}
		}
		exitCode = exitErr.ExitCode()
	}

	return Classify(exitCode, stdout.String(), stderr.String())
}
