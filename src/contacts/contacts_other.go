//go:build !darwin

package contacts

import (
	"context"

	"task-goblin/src/automation"
)

func (b *Book) List(ctx context.Context) ([]Contact, error) {
	return nil, automation.ErrUnsupported
}
