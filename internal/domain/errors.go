package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileNotFound          = errors.New("file not found")
	ErrExtensionNotSupported = errors.New("extension not supported")
	ErrAdapterNotAvailable   = errors.New("adapter not available")
	ErrUnsafePath            = errors.New("invalid path in archive")
)

type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// ExtensionNotSupportedError is returned when no adapter is registered for an extension.
type ExtensionNotSupportedError struct {
	Extension string
	Supported []string
}

func (e *ExtensionNotSupportedError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("extension %q not supported", e.Extension)
	}
	return fmt.Sprintf("extension %q not supported (supported: %s)", e.Extension, strings.Join(e.Supported, ", "))
}

func (e *ExtensionNotSupportedError) Is(target error) bool {
	return target == ErrExtensionNotSupported
}

// AdapterNotAvailableError is returned when an adapter matches but its
// decoding capability is missing from the runtime.
type AdapterNotAvailableError struct {
	Identifier string
}

func (e *AdapterNotAvailableError) Error() string {
	return fmt.Sprintf("adapter %s not available", e.Identifier)
}

func (e *AdapterNotAvailableError) Is(target error) bool {
	return target == ErrAdapterNotAvailable
}
