//go:build !darwin

package island

import "fyne.io/fyne/v2"

func (c *Countdown) placeTopCenter() {
	fyne.Do(func() {
		c.win.CenterOnScreen()
	})
}
