package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSlugTitle(t *testing.T) {
	testCases := []struct {
		slug     string
		expected string
	}{
		{"box-of-chocolate-candy-3", "Box Of Chocolate Candy"},
		{"dark-red-energy-potion-12", "Dark Red Energy Potion"},
		{"teal-potion", "Teal"},
		{"widget", "Widget"},
		{"", ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SlugTitle(test.slug), "slug: %s", test.slug)
	}
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "boxofchocolatecandy", NormalizeName("  Box of\tChocolate  Candy\n"))
}

func TestTokenize(t *testing.T) {
	diff := cmp.Diff(
		[]string{"didn't", "expect", "much", "5", "stars"},
		Tokenize("Didn't expect much... 5 stars!"),
	)
	if diff != "" {
		t.Fatal(diff)
	}
}
