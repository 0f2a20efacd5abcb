// internal/gripper/errors.go
package gripper

import "errors"

var (
	// ErrNotConnected is returned by commands issued without an open link.
	ErrNotConnected = errors.New("gripper: not connected")

	// ErrNotInitialized is returned by motion commands before Init completed.
	ErrNotInitialized = errors.New("gripper: not initialized")

	// ErrDisconnected wakes callers whose sequence was abandoned by Disconnect.
	ErrDisconnected = errors.New("gripper: disconnected during command")

	// ErrSuperseded wakes callers whose sequence was replaced by a newer command.
	ErrSuperseded = errors.New("gripper: command superseded")
)
