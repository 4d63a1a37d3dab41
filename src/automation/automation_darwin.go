package automation

import "context"

// Shutdown asks System Events to shut the machine down.
func Shutdown(ctx context.Context, runner Runner) error {
	_, err := RunAppleScript(ctx, runner, shutdownScript)
	return err
}

// Notify posts a Notification Center banner.
func Notify(ctx context.Context, runner Runner, title, message string) error {
	_, err := RunAppleScript(ctx, runner, notificationScript(title, message))
	return err
}

// OpenURL hands a URL (or URL scheme) to Launch Services.
func OpenURL(ctx context.Context, runner Runner, url string) error {
	_, err := runner.Run(ctx, "open", url)
	return err
}

// OpenSettingsPane deep-links into a System Settings pane.
func OpenSettingsPane(ctx context.Context, runner Runner, pane string) error {
	return OpenURL(ctx, runner, pane)
}
