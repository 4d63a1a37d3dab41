package appcloser

import (
	"context"
	"fmt"
	"log"

	"task-goblin/src/automation"
)

// CloseAll quits every visible app outside the keep list. extraKeep extends
// the built-in list with user-configured names.
func (c *Closer) CloseAll(ctx context.Context, extraKeep []string) error {
	keep := append(append([]string(nil), defaultKeepApps...), extraKeep...)
	log.Printf("AppCloser: closing all apps, keeping %d names", len(keep))
	if _, err := automation.RunAppleScript(ctx, c.runner, closeAllScript(keep)); err != nil {
		return fmt.Errorf("close all apps: %w", err)
	}
	return nil
}

// CloseLeisure quits streaming, chat, and gaming apps.
func (c *Closer) CloseLeisure(ctx context.Context) error {
	log.Printf("AppCloser: closing leisure apps")
	if _, err := automation.RunAppleScript(ctx, c.runner, closeNamedScript(leisureApps)); err != nil {
		return fmt.Errorf("close leisure apps: %w", err)
	}
	return nil
}

// CloseHeavy quits browsers, IDEs, and other heavyweight apps.
func (c *Closer) CloseHeavy(ctx context.Context) error {
	log.Printf("AppCloser: closing heavy apps")
	if _, err := automation.RunAppleScript(ctx, c.runner, closeNamedScript(heavyApps)); err != nil {
		return fmt.Errorf("close heavy apps: %w", err)
	}
	return nil
}
