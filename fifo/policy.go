package fifo

import (
	"github.com/pkg/errors"
)

// Policy selects how read eligibility is decided when a write and a read
// are issued in the same cycle.
type Policy int

const (
	// PolicyPreWriteEmpty gates the read on the empty status sampled before
	// this cycle's write. A word written into an empty queue cannot be read
	// in the same cycle.
	PolicyPreWriteEmpty Policy = iota

	// PolicySameCycleFallThrough gates the read on the status after this
	// cycle's write, so a word written into an empty queue can be consumed
	// in the same cycle.
	PolicySameCycleFallThrough
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown read policy")

var policyNames = map[Policy]string{
	PolicyPreWriteEmpty:        "pre-write-empty",
	PolicySameCycleFallThrough: "same-cycle-fall-through",
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePolicy converts a configuration name into a Policy. An empty name
// selects the default PolicyPreWriteEmpty.
func ParsePolicy(name string) (Policy, error) {
	if name == "" {
		return PolicyPreWriteEmpty, nil
	}
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return PolicyPreWriteEmpty, errors.Wrapf(ErrUnknownPolicy, "%q", name)
}
