package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		total float64
		want  int64
	}{
		{19.99, 1999},
		{0.29, 29},
		{10, 1000},
		{12.345, 1234},
		{1.005, 100},
		{999999.99, MaxMinorUnits},
	}
	for _, c := range cases {
		got, err := ToMinorUnits(c.total)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got, "total %v", c.total)
	}
}

func TestToMinorUnits_RejectsNonPositive(t *testing.T) {
	for _, total := range []float64{0, -5, 0.001} {
		_, err := ToMinorUnits(total)
		assert.ErrorIs(t, err, ErrInvalidAmount, "total %v", total)
	}
}

func TestToMinorUnits_RejectsAmountsAboveLimit(t *testing.T) {
	for _, total := range []float64{1000000, 1e17, 1e300} {
		_, err := ToMinorUnits(total)
		assert.ErrorIs(t, err, ErrInvalidAmount, "total %v", total)
	}
}
