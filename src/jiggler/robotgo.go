package jiggler

import "github.com/go-vgo/robotgo"

// RobotMover drives the real pointer through robotgo.
type RobotMover struct{}

func (RobotMover) MoveRelative(dx, dy int) {
	robotgo.MoveRelative(dx, dy)
}
