package stream

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	"github.com/oxygene76/orrery/internal/types"
)

// CommandApplier executes control commands; *simulation.Simulation
// implements it
type CommandApplier interface {
	ApplyCommand(cmd types.ControlCommand) error
}

// DecodeCommand parses a JSON control command
func DecodeCommand(data []byte) (types.ControlCommand, error) {
	var cmd types.ControlCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	if cmd.Command == "" {
		return cmd, errorsmod.Wrap(types.ErrInvalidRequest, "missing command")
	}
	return cmd, nil
}
