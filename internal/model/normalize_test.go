package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Emma", "emma"},
		{"Émile", "emile"},
		{"José", "jose"},
		{"MARÍA", "maria"},
		{"Zoë", "zoe"},
		{"  Anna  ", "anna"},
		{"Jean-Pierre", "jean-pierre"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "input: %q", tt.input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"Émile", "José", "maria del carmen", "Björn"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input: %q", s)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Emma", Capitalize("EMMA"))
	assert.Equal(t, "Jean-Pierre", Capitalize("JEAN-PIERRE"))
	assert.Equal(t, "Anna", Capitalize("anna"))
	assert.Equal(t, "", Capitalize(""))
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Maria Del Carmen", CapitalizeWords("MARIA DEL CARMEN"))
	assert.Equal(t, "Jose", CapitalizeWords("JOSE"))
}
