package zpool

import (
	"github.com/scigolib/zpool/internal/utils"
	"github.com/scigolib/zpool/nv"
)

// The find helpers drive an nv.Decoder with a fixed known-key set: required
// lookups fail with MissingValueError, optional lookups report presence, and
// every lookup checks the pair's declared type.

func findUint64(d *nv.Decoder, name string) (uint64, error) {
	v, ok, err := findOptionUint64(d, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &MissingValueError{Name: name}
	}
	return v, nil
}

func findOptionUint64(d *nv.Decoder, name string) (uint64, bool, error) {
	pair, err := d.Find(name)
	if err != nil {
		return 0, false, utils.WrapError("nv find failed", err)
	}
	if pair == nil {
		return 0, false, nil
	}
	v, ok := pair.Value.(uint64)
	if !ok {
		return 0, false, &ValueTypeMismatchError{Name: name, DataType: pair.Type}
	}
	return v, true, nil
}

func findString(d *nv.Decoder, name string) (string, error) {
	v, ok, err := findOptionString(d, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &MissingValueError{Name: name}
	}
	return v, nil
}

func findOptionString(d *nv.Decoder, name string) (string, bool, error) {
	pair, err := d.Find(name)
	if err != nil {
		return "", false, utils.WrapError("nv find failed", err)
	}
	if pair == nil {
		return "", false, nil
	}
	v, ok := pair.Value.(string)
	if !ok {
		return "", false, &ValueTypeMismatchError{Name: name, DataType: pair.Type}
	}
	return v, true, nil
}

func findList(d *nv.Decoder, name string) (*nv.Decoder, error) {
	v, ok, err := findOptionList(d, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingValueError{Name: name}
	}
	return v, nil
}

func findOptionList(d *nv.Decoder, name string) (*nv.Decoder, bool, error) {
	pair, err := d.Find(name)
	if err != nil {
		return nil, false, utils.WrapError("nv find failed", err)
	}
	if pair == nil {
		return nil, false, nil
	}
	v, ok := pair.Value.(*nv.Decoder)
	if !ok {
		return nil, false, &ValueTypeMismatchError{Name: name, DataType: pair.Type}
	}
	return v, true, nil
}

func findListArray(d *nv.Decoder, name string) (*nv.ArrayDecoder[*nv.Decoder], bool, error) {
	pair, err := d.Find(name)
	if err != nil {
		return nil, false, utils.WrapError("nv find failed", err)
	}
	if pair == nil {
		return nil, false, nil
	}
	v, ok := pair.Value.(*nv.ArrayDecoder[*nv.Decoder])
	if !ok {
		return nil, false, &ValueTypeMismatchError{Name: name, DataType: pair.Type}
	}
	return v, true, nil
}

// findFeature reports whether a feature flag is set: a Boolean pair marks
// presence, a BooleanValue pair carries an explicit value.
func findFeature(d *nv.Decoder, name string) (bool, error) {
	pair, err := d.Find(name)
	if err != nil {
		return false, utils.WrapError("nv find failed", err)
	}
	if pair == nil {
		return false, nil
	}
	switch pair.Type {
	case nv.Boolean:
		return true, nil
	case nv.BooleanValue:
		return pair.Value.(bool), nil
	default:
		return false, &ValueTypeMismatchError{Name: name, DataType: pair.Type}
	}
}

func findUint64Bool(d *nv.Decoder, name string) (bool, error) {
	v, err := findUint64(d, name)
	if err != nil {
		return false, err
	}
	return uint64Bool(name, v)
}

func findOptionUint64Bool(d *nv.Decoder, name string) (*bool, error) {
	v, ok, err := findOptionUint64(d, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	b, err := uint64Bool(name, v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func uint64Bool(name string, v uint64) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &InvalidU64BoolError{Name: name, Value: v}
	}
}

// checkKnownNames drains the list and rejects any pair whose name is not in
// known.
func checkKnownNames(d *nv.Decoder, known []string) error {
	d.Reset()
	for {
		pair, err := d.NextPair()
		if err != nil {
			return utils.WrapError("nv pair decode failed", err)
		}
		if pair == nil {
			return nil
		}

		found := false
		for _, name := range known {
			if pair.Name == name {
				found = true
				break
			}
		}
		if !found {
			return &UnknownNameError{Name: pair.Name, FullLength: len(pair.Name)}
		}
	}
}
