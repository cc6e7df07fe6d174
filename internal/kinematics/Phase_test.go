package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPhase(t *testing.T) {
	tests := []struct {
		name string
		a, v float64
		want Phase
	}{
		{name: "full thrust", a: 10, v: 3, want: PhaseAccelerating},
		{name: "braking", a: -10, v: 3, want: PhaseDecelerating},
		{name: "residual acceleration at rest", a: 0.0033, v: 0, want: PhaseStationary},
		{name: "coasting", a: 0, v: 2, want: PhaseCruising},
		{name: "just above threshold", a: 0.11, v: 0, want: PhaseAccelerating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPhase(tt.a, tt.v, 10))
		})
	}
}
