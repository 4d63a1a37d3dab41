//go:build !darwin

package appcloser

import (
	"context"

	"task-goblin/src/automation"
)

func (c *Closer) CloseAll(ctx context.Context, extraKeep []string) error {
	return automation.ErrUnsupported
}

func (c *Closer) CloseLeisure(ctx context.Context) error {
	return automation.ErrUnsupported
}

func (c *Closer) CloseHeavy(ctx context.Context) error {
	return automation.ErrUnsupported
}
