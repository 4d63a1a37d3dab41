//go:build !darwin

package automation

import "context"

func Shutdown(ctx context.Context, runner Runner) error { return ErrUnsupported }

func Notify(ctx context.Context, runner Runner, title, message string) error {
	return ErrUnsupported
}

func OpenURL(ctx context.Context, runner Runner, url string) error { return ErrUnsupported }

func OpenSettingsPane(ctx context.Context, runner Runner, pane string) error {
	return ErrUnsupported
}
