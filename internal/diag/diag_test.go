package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerptCaret(t *testing.T) {
	src := "let a = 1\nlet b = 2\n"
	e := New(KindTypeMismatch, "f.txt", 2, 9, src, "mismatched types")
	assert.Contains(t, e.Excerpt, "let b = 2")
	assert.Contains(t, e.Excerpt, "        ^")
}

func TestExcerptOutOfRangeLineIsEmpty(t *testing.T) {
	assert.Equal(t, "", excerpt("one line only", 5, 1))
}

func TestErrorStringIncludesKindAndPosition(t *testing.T) {
	e := New(KindLookupError, "f.txt", 3, 4, "", "unknown name 'x'")
	assert.Contains(t, e.Error(), "f.txt:3:4")
	assert.Contains(t, e.Error(), "lookup-error")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := assert.AnError
	e := Wrap(KindHostError, "f.txt", 1, 1, "", cause)
	assert.ErrorIs(t, e.Unwrap(), cause)
}
