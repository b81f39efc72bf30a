package chain

import "errors"

// ErrTransport wraps failures to reach the node itself: dial errors,
// timeouts, connection resets.
var ErrTransport = errors.New("chain: transport error")

// ErrReverted wraps an EVM revert surfaced by eth_call.
var ErrReverted = errors.New("chain: call reverted")

// ErrNotFound marks a read that succeeded but found nothing (zero
// address returned from a factory lookup, empty bytecode, etc).
var ErrNotFound = errors.New("chain: not found")
