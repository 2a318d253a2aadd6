package collection

import "fmt"

// KeyMissingError is returned when a required key is absent.
type KeyMissingError struct {
	Key string
}

func (e *KeyMissingError) Error() string {
	return fmt.Sprintf("key %q does not exist", e.Key)
}
