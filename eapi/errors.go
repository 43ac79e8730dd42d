package eapi

import "encoding/json"

// Error codes the command API reports in its JSON-RPC error member.
const (
	// The command failed; the accompanying data has the results of
	// the commands that did run.
	codeCommandError = 1002
	// The command has no JSON representation yet and was asked for
	// one.
	codeUnconverted = 1003
)

// CommandError means a command in the batch failed on the device.
type CommandError struct {
	Code    int
	Message string
	// Output holds the raw per-command results up to and including
	// the failing command.
	Output []json.RawMessage
}

func (e *CommandError) Error() string {
	return "eapi: command failed: " + e.Message
}

// UnconvertedError means a command was asked for JSON output but the
// device only renders it as text. Retrying with text format (or
// setting CommandOptions.AutoFormat) works around it.
type UnconvertedError struct {
	Message string
}

func (e *UnconvertedError) Error() string {
	return "eapi: command not converted to JSON: " + e.Message
}

// ProtocolError is any other JSON-RPC level failure.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	return "eapi: protocol error: " + e.Message
}
