package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnyContainsFold(t *testing.T) {
	tests := []struct {
		name   string
		sub    string
		fields []string
		want   bool
	}{
		{"matches second field", "c0a", []string{"Taipei", "C0A520"}, true},
		{"case-insensitive name", "TAIPEI", []string{"taipei city"}, true},
		{"no match", "kaohsiung", []string{"Taipei", "466920"}, false},
		{"no fields", "x", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnyContainsFold(tt.sub, tt.fields...))
		})
	}
}
