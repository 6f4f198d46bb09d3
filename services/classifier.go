package services

import (
	"strings"

	"pygamecrafter-server/models"
)

// SuccessPlaceholder is returned when a program exits 0 without printing.
const SuccessPlaceholder = "Code executed successfully (Pygame window should open until manually closed)."

// Classify maps a finished sandbox process to its outcome. The stderr scan is
// case-insensitive and runs before the exit-code check because pygame can
// report a dead video device and still exit 0.
func Classify(exitCode int, stdout, stderr string) *models.Outcome {
	stderrLower := strings.ToLower(stderr)

	if strings.Contains(stderrLower, "pygame.error") ||
		strings.Contains(stderrLower, "no available video device") {
		return &models.Outcome{
			Status: models.StatusInitFailure,
			Detail: "Pygame failed to initialize.\n" +
				"If you are running this in a headless environment, " +
				"make sure to use the 'dummy' video driver or run with a display.\n\n" +
				"Details:\n" + stderr,
		}
	}

	if strings.Contains(stderrLower, "pygame initialization failed") {
		return &models.Outcome{
			Status: models.StatusInitFailure,
			Detail: "Pygame failed to initialize in this environment.\n" +
				"PyGameCrafter can still help you improve the code, " +
				"but you may need a proper display to actually run the game.",
		}
	}

	if exitCode == 0 {
		output := stdout
		if output == "" {
			output = SuccessPlaceholder
		}
		return &models.Outcome{Status: models.StatusSuccess, Output: output}
	}

	return &models.Outcome{
		Status:   models.StatusRuntimeFailure,
		Detail:   stderr,
		ExitCode: exitCode,
	}
}
