package autotile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMode is returned for a mode value no sampler handles.
	ErrInvalidMode = errors.New("autotile: invalid mode")
	// ErrMissingCollaborator is returned when a mode needs a callback
	// that was not supplied.
	ErrMissingCollaborator = errors.New("autotile: missing collaborator")
)

// Mode is the integer strategy selector used at API boundaries.
type Mode int

const (
	ModeGenericPredicate Mode = 0
	ModeBackgroundBlend  Mode = 1
	ModeRawSample        Mode = 2
	// ModePacked and every larger value select the packed mask.
	ModePacked Mode = 3
)

func (m Mode) String() string {
	switch {
	case m == ModeGenericPredicate:
		return "generic"
	case m == ModeBackgroundBlend:
		return "background"
	case m == ModeRawSample:
		return "raw"
	case m >= ModePacked:
		return "packed"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts either a mode name or its number.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "generic", "0":
		return ModeGenericPredicate, nil
	case "background", "1":
		return ModeBackgroundBlend, nil
	case "raw", "2":
		return ModeRawSample, nil
	case "packed", "3":
		return ModePacked, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Collaborators carries the external pieces each mode may need.
type Collaborators struct {
	Connected ConnectFunc
	Sample    SampleFunc
	// Rules defaults to DefaultBlendRules when nil.
	Rules  *BlendRules
	Packed Packed
}

// SamplerFor builds the sampler for an integer mode.
func SamplerFor(mode Mode, c Collaborators) (Sampler, error) {
	switch {
	case mode < 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	case mode == ModeGenericPredicate:
		if c.Connected == nil {
			return nil, fmt.Errorf("%w: mode %v needs a connect predicate", ErrMissingCollaborator, mode)
		}
		return GenericPredicate{Connected: c.Connected}, nil
	case mode == ModeBackgroundBlend:
		rules := DefaultBlendRules()
		if c.Rules != nil {
			rules = *c.Rules
		}
		return BackgroundBlend{Rules: rules}, nil
	case mode == ModeRawSample:
		if c.Sample == nil {
			return nil, fmt.Errorf("%w: mode %v needs a sample function", ErrMissingCollaborator, mode)
		}
		return RawSample{Read: c.Sample}, nil
	default:
		return PackedMask{Packed: c.Packed}, nil
	}
}
