package contract

import (
	"testing"

	"go.llib.dev/testcase"
)

// Make creates a new instance of the testing subject.
//
// When a contract needs more than a single value, the Subject is a struct
// whose fields hold every dependency the contract needs.
type Make[Subject any] = func(tb testing.TB) Subject

// Contract is a reusable test suite that describes the expected behaviour of a role.
// Any implementation of the role can prove its conformance by running it.
type Contract interface {
	testcase.Suite
	Test(*testing.T)
	// Benchmark runs the same suite as a benchmark,
	// so implementations can be compared on the measured operations.
	Benchmark(*testing.B)
}
