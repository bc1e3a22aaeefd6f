package hotpaste

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// osLauncher opens files with the platform default application.
type osLauncher struct{}

func (osLauncher) OpenDocument(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return nil
}
