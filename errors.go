package zpool

import (
	"fmt"

	"github.com/scigolib/zpool/nv"
)

// MissingValueError reports a required configuration key that is absent.
type MissingValueError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("zpool: missing '%s'", e.Name)
}

// UnknownNameError reports a configuration key this projection does not
// recognise.
type UnknownNameError struct {
	Name       string
	FullLength int
}

// Error implements the error interface.
func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("zpool: unknown name '%s'", e.Name)
}

// UnknownFeatureError reports a features_for_read entry outside the known
// catalogue.
type UnknownFeatureError struct {
	Feature    string
	FullLength int
}

// Error implements the error interface.
func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("zpool: unknown feature '%s'", e.Feature)
}

// UnknownTypeError reports a vdev type string this projection does not
// recognise.
type UnknownTypeError struct {
	Type       string
	FullLength int
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("zpool: unknown vdev type '%s'", e.Type)
}

// ValueTypeMismatchError reports a configuration key carrying a value of the
// wrong data type.
type ValueTypeMismatchError struct {
	Name     string
	DataType nv.DataType
}

// Error implements the error interface.
func (e *ValueTypeMismatchError) Error() string {
	return fmt.Sprintf("zpool: value type mismatch for '%s', got %s", e.Name, e.DataType)
}

// InvalidConfigurationError reports configuration keys that contradict each
// other.
type InvalidConfigurationError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("zpool: invalid configuration: %s", e.Reason)
}

// InvalidPoolHealthError reports an unknown pool_health string.
type InvalidPoolHealthError struct {
	Health     string
	FullLength int
}

// Error implements the error interface.
func (e *InvalidPoolHealthError) Error() string {
	return fmt.Sprintf("zpool: invalid pool_health '%s'", e.Health)
}

// InvalidStateError reports an unknown pool state value.
type InvalidStateError struct {
	State uint64
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("zpool: invalid 'state' %d", e.State)
}

// UnsupportedVersionError reports an unknown pool version value.
type UnsupportedVersionError struct {
	Version uint64
}

// Error implements the error interface.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("zpool: unsupported 'version' %d", e.Version)
}

// InvalidU64BoolError reports a uint64 boolean with a value other than 0 or
// 1.
type InvalidU64BoolError struct {
	Name  string
	Value uint64
}

// Error implements the error interface.
func (e *InvalidU64BoolError) Error() string {
	return fmt.Sprintf("zpool: invalid uint64 boolean %d for '%s'", e.Value, e.Name)
}
