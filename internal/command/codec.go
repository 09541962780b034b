// Package command translates between the shell-style command string and its
// argument sequence, and keeps both forms of a command in agreement.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// SyntaxError reports an argument array text that is not a JSON array of strings.
type SyntaxError struct {
	Message string
	// Offset is the byte offset of the failure for malformed JSON, zero otherwise.
	Offset int64
}

func (e *SyntaxError) Error() string {
	return "SyntaxError: " + e.Message
}

// ToArgs tokenizes a command string using shell quoting rules. It never fails:
// unterminated quotes are closed, a dangling escape is dropped and anything
// else falls back to whitespace splitting.
func ToArgs(commandString string) []string {
	words, err := shellquote.Split(commandString)
	if err == nil {
		return nonNil(words)
	}

	var repaired string
	switch {
	case errors.Is(err, shellquote.UnterminatedSingleQuoteError):
		repaired = commandString + "'"
	case errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
		repaired = commandString + `"`
	case errors.Is(err, shellquote.UnterminatedEscapeError):
		repaired = strings.TrimSuffix(commandString, `\`)
	default:
		return nonNil(strings.Fields(commandString))
	}

	if words, err = shellquote.Split(repaired); err == nil {
		return nonNil(words)
	}
	return nonNil(strings.Fields(commandString))
}

// ToCommandString joins arguments into a shell-style string, quoting tokens
// that contain whitespace or shell-special characters.
func ToCommandString(args []string) string {
	return shellquote.Join(args...)
}

// ParseArgsJSON parses text as a JSON array of strings.
func ParseArgsJSON(text string) ([]string, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &SyntaxError{Message: syntaxErr.Error(), Offset: syntaxErr.Offset}
		}
		return nil, &SyntaxError{Message: err.Error()}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &SyntaxError{Message: fmt.Sprintf("expected a JSON array of strings, got %s", jsonKind(raw))}
	}

	args := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &SyntaxError{Message: fmt.Sprintf("element %d must be a string, got %s", i, jsonKind(item))}
		}
		args[i] = s
	}
	return args, nil
}

// FormatArgsJSON renders args as a compact JSON array.
func FormatArgsJSON(args []string) string {
	data, err := json.Marshal(nonNil(args))
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(data)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func nonNil(args []string) []string {
	if args == nil {
		return []string{}
	}
	return args
}
