package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTagLen      = 50
	MaxCategoryLen = 100
	MaxTitleLen    = 255
)

var tagRegex = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} ._+#-]*$`)

// ValidateTagName checks one already trimmed tag.
func ValidateTagName(name string) error {
	if name == "" {
		return errors.New("tag cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxTagLen {
		return fmt.Errorf("tag %q is longer than %d characters", name, MaxTagLen)
	}
	if !tagRegex.MatchString(name) {
		return fmt.Errorf("tag %q may only contain letters, digits, spaces and . _ + # -", name)
	}
	return nil
}

func ValidateCategoryName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("category name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxCategoryLen {
		return fmt.Errorf("category name must be at most %d characters", MaxCategoryLen)
	}
	return nil
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLen)
	}
	return nil
}
