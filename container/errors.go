package container

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is the panic value of the Must* pop variants when the container holds no elements.
	ErrEmpty = errors.New("container is empty")

	// ErrOutOfRange is wrapped by the panic value of positional operations given a position outside the buffer.
	ErrOutOfRange = errors.New("position out of range")
)

func outOfRange(operation string, position, length int) error {
	return fmt.Errorf("%w: %s at %d with length %d", ErrOutOfRange, operation, position, length)
}

func emptyContainer(operation string) error {
	return fmt.Errorf("%w: %s", ErrEmpty, operation)
}
