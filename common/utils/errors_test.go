package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	assert.NotPanics(t, func() {
		Check(nil, "should be silent")
	})

	assert.Panics(t, func() {
		Check(errors.New("boom"), "could not start")
	})
}

func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() {
		Assert(true, "invariant holds")
	})

	assert.Panics(t, func() {
		Assert(false, "invariant violated")
	})
}
