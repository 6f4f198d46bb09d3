package services

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pygamecrafter-server/models"
)

func TestBuildHarnessWrapsCodeVerbatim(t *testing.T) {
	userCode := "screen = pygame.display.set_mode((640, 480))\nprint('ready')"
	harness := buildHarness(userCode)

	assert.Contains(t, harness, "import pygame")
	assert.Contains(t, harness, "if pygame.init() == (0, 0):")
	assert.Contains(t, harness, "Pygame initialization failed")
	assert.Contains(t, harness, userCode)
	assert.Contains(t, harness, "pygame.QUIT")
	assert.Contains(t, harness, "pygame.display.flip()")
	assert.Contains(t, harness, "pygame.quit()")

	// init check, user code, event pump, teardown in that order
	initIdx := strings.Index(harness, "pygame.init()")
	codeIdx := strings.Index(harness, userCode)
	pumpIdx := strings.Index(harness, "while running:")
	quitIdx := strings.Index(harness, "pygame.quit()")
	assert.Less(t, initIdx, codeIdx)
	assert.Less(t, codeIdx, pumpIdx)
	assert.Less(t, pumpIdx, quitIdx)
}

func TestSandboxEnvRespectsAmbientDriver(t *testing.T) {
	t.Setenv("SDL_VIDEODRIVER", "kmsdrm")

	env := sandboxEnv()

	count := 0
	for _, kv := range env {
		if strings.HasPrefix(kv, "SDL_VIDEODRIVER=") {
			count++
			assert.Equal(t, "SDL_VIDEODRIVER=kmsdrm", kv)
		}
	}
	assert.Equal(t, 1, count)
}

func TestSandboxEnvForcesDummyDriverHeadless(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("headless default only applies off Windows")
	}

	unsetEnv(t, "SDL_VIDEODRIVER")
	t.Setenv("DISPLAY", "")

	env := sandboxEnv()
	assert.Contains(t, env, "SDL_VIDEODRIVER=dummy")
}

func TestSandboxEnvDefaultsToX11WithDisplay(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("x11 default only applies off Windows")
	}

	unsetEnv(t, "SDL_VIDEODRIVER")
	t.Setenv("DISPLAY", ":0")

	env := sandboxEnv()
	assert.Contains(t, env, "SDL_VIDEODRIVER=x11")
}

func TestScratchStoreCreateRunAndCleanup(t *testing.T) {
	store, err := NewScratchStore(t.TempDir())
	require.NoError(t, err)

	scriptPath, cleanup, err := store.CreateRun("print('hi')")
	require.NoError(t, err)

	data, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(data))

	cleanup()
	_, err = os.Stat(filepath.Dir(scriptPath))
	assert.True(t, os.IsNotExist(err))
}

func TestExecuteClassifiesRuntimeFailure(t *testing.T) {
	sandbox, store := newStubSandbox(t, "#!/bin/sh\necho boom >&2\nexit 3\n")

	out := sandbox.Execute("print(1)")

	assert.Equal(t, models.StatusRuntimeFailure, out.Status)
	assert.Equal(t, 3, out.ExitCode)
	assert.Contains(t, out.Detail, "boom")
	assertScratchEmpty(t, store)
}

func TestExecuteCapturesStdoutOnSuccess(t *testing.T) {
	sandbox, store := newStubSandbox(t, "#!/bin/sh\necho hello\nexit 0\n")

	out := sandbox.Execute("print(1)")

	assert.Equal(t, models.StatusSuccess, out.Status)
	assert.Equal(t, "hello\n", out.Output)
	assertScratchEmpty(t, store)
}

func TestExecuteClassifiesHeadlessInitFailure(t *testing.T) {
	sandbox, store := newStubSandbox(t, "#!/bin/sh\necho 'pygame.error: No available video device' >&2\nexit 0\n")

	out := sandbox.Execute("print(1)")

	assert.Equal(t, models.StatusInitFailure, out.Status)
	assert.Contains(t, out.Detail, "headless environment")
	assertScratchEmpty(t, store)
}

func TestExecuteRunsTheMaterializedHarness(t *testing.T) {
	// The stub prints the script it was handed, so the captured stdout is the
	// harness itself.
	sandbox, store := newStubSandbox(t, "#!/bin/sh\ncat \"$1\"\nexit 0\n")

	userCode := "screen = pygame.display.set_mode((320, 240))"
	out := sandbox.Execute(userCode)

	assert.Equal(t, models.StatusSuccess, out.Status)
	assert.Contains(t, out.Output, "if pygame.init() == (0, 0):")
	assert.Contains(t, out.Output, userCode)
	assert.Contains(t, out.Output, "pygame.QUIT")
	assertScratchEmpty(t, store)
}

func TestExecuteReportsMissingInterpreter(t *testing.T) {
	store, err := NewScratchStore(t.TempDir())
	require.NoError(t, err)
	sandbox := NewSandboxService(store, filepath.Join(t.TempDir(), "definitely-not-python"))

	out := sandbox.Execute("print(1)")

	assert.Equal(t, models.StatusInitFailure, out.Status)
	assert.Contains(t, out.Detail, "Execution failed while running your Pygame code.")
	assertScratchEmpty(t, store)
}

// newStubSandbox wires a SandboxService to a shell-script interpreter stand-in
// so process handling is tested without python or pygame installed.
func newStubSandbox(t *testing.T, script string) (*SandboxService, *ScratchStore) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter is a shell script")
	}

	stub := filepath.Join(t.TempDir(), "python-stub")
	require.NoError(t, os.WriteFile(stub, []byte(script), 0755))

	store, err := NewScratchStore(t.TempDir())
	require.NoError(t, err)
	return NewSandboxService(store, stub), store
}

// assertScratchEmpty checks the per-run directory was removed.
func assertScratchEmpty(t *testing.T, store *ScratchStore) {
	t.Helper()
	entries, err := os.ReadDir(store.BasePath())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// unsetEnv removes a variable for the duration of the test. t.Setenv only
// overrides, it cannot unset.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if old, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, old) })
	}
	os.Unsetenv(key)
}
