package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":3000", "-x", "noise"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":3000"},
		},
		{
			name:    "equals form",
			args:    []string{"--table=users", "-g=eu-west-1", "-z=drop"},
			allowed: []string{"--table", "-g"},
			want:    []string{"--table=users", "-g=eu-west-1"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-m", "-a", ":3000"},
			allowed: []string{"-m", "-a"},
			want:    []string{"-m", "-a", ":3000"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":3000"},
			allowed: []string{},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
