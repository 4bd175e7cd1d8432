package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTagName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tag  string
		ok   bool
	}{
		{name: "simple", tag: "go", ok: true},
		{name: "with space", tag: "web dev", ok: true},
		{name: "symbols", tag: "c++", ok: true},
		{name: "hash", tag: "c#", ok: true},
		{name: "unicode", tag: "café", ok: true},
		{name: "maximum length", tag: strings.Repeat("a", MaxTagLen), ok: true},
		{name: "too long", tag: strings.Repeat("a", MaxTagLen+1), ok: false},
		{name: "empty", tag: "", ok: false},
		{name: "leading symbol", tag: "-go", ok: false},
		{name: "comma", tag: "a,b", ok: false},
		{name: "slash", tag: "a/b", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTagName(tt.tag)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateCategoryName(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateCategoryName("Travel"))
	assert.Error(t, ValidateCategoryName("   "))
	assert.Error(t, ValidateCategoryName(strings.Repeat("x", MaxCategoryLen+1)))
}

func TestValidateTitle(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTitle("Hello"))
	assert.Error(t, ValidateTitle(" "))
	assert.Error(t, ValidateTitle(strings.Repeat("x", MaxTitleLen+1)))
}
