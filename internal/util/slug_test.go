package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Chez Marie", want: "chez-marie"},
		{name: "apostrophe and accent", in: "Joe's Café", want: "joe-s-cafe"},
		{name: "punctuation runs", in: "La -- Boulangerie!!", want: "la-boulangerie"},
		{name: "leading trailing separators", in: "  ~Pizza Roma~  ", want: "pizza-roma"},
		{name: "digits kept", in: "Bistro 21", want: "bistro-21"},
		{name: "uppercase folded", in: "THE GOLDEN SPOON", want: "the-golden-spoon"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	// The availability pre-check and the later registration must agree.
	name := "Joe's Café"
	assert.Equal(t, Slugify(name), Slugify(name))
}

func TestSlugifyCollidingNames(t *testing.T) {
	// Distinct display names that normalize identically yield equal slugs;
	// the storage-layer unique index is what finally arbitrates.
	assert.Equal(t, Slugify("Chez Marie"), Slugify("chez   MARIE"))
	assert.Equal(t, Slugify("Chez-Marie"), Slugify("Chez Marie"))
}
