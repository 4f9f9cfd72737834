package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validationf("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflictf("taken")))
	assert.Equal(t, KindPolicy, KindOf(Policyf("not allowed")))
	assert.Equal(t, KindInvalidState, KindOf(InvalidStatef("wrong state")))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while booking: %w", Conflictf("slot %s taken", "slot-1"))

	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindValidation))
}

func TestErrorMessage(t *testing.T) {
	err := Validationf("slot end must be after start")
	assert.Equal(t, "validation: slot end must be after start", err.Error())
}
