package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Operator     string  `validate:"required"`
	LapCount     int     `validate:"required,gt=0"`
	MetersPerLap float64 `validate:"required,gt=0"`
}

func TestStructValid(t *testing.T) {
	err := Struct(sampleRequest{Operator: "pilot", LapCount: 25, MetersPerLap: 800})
	assert.NoError(t, err)
}

func TestStructCollectsAllViolations(t *testing.T) {
	err := Struct(sampleRequest{})
	require.Error(t, err)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 3)

	fields := make(map[string]string)
	for _, f := range vErr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "is required", fields["Operator"])
	assert.Contains(t, fields["LapCount"], "required")
}

func TestStructGtMessage(t *testing.T) {
	err := Struct(sampleRequest{Operator: "pilot", LapCount: -1, MetersPerLap: 800})
	require.Error(t, err)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "LapCount", vErr.Fields[0].Field)
	assert.Equal(t, "must be greater than 0", vErr.Fields[0].Message)
	assert.Contains(t, vErr.Error(), "LapCount")
}
