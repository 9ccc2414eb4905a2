package types

import errorsmod "cosmossdk.io/errors"

// Codespace for orrery errors
const Codespace = "orrery"

var (
	ErrInvalidConfig  = errorsmod.Register(Codespace, 2, "invalid configuration")
	ErrInvalidCatalog = errorsmod.Register(Codespace, 3, "invalid body catalog")
	ErrUnknownBody    = errorsmod.Register(Codespace, 4, "unknown body")
	ErrInvalidRequest = errorsmod.Register(Codespace, 5, "invalid request")
	ErrSinkClosed     = errorsmod.Register(Codespace, 6, "frame sink closed")
)
