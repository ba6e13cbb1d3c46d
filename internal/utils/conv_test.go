package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"1":   1,
		"3":   3,
		"0":   1,
		"-2":  1,
		"abc": 1,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePage(in), "ParsePage(%q)", in)
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("17")
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)

	for _, bad := range []string{"", "0", "-1", "x1"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, "ParseID(%q)", bad)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
