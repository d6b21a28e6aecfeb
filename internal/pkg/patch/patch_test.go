//go:build unit

package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	v := 5
	assert.Equal(t, 5, Coalesce(&v, 1))
	assert.Equal(t, 1, Coalesce[int](nil, 1))
}

func TestTrimmedOrNil(t *testing.T) {
	blank, padded := "   ", "  pending "
	assert.Nil(t, TrimmedOrNil(nil))
	assert.Nil(t, TrimmedOrNil(&blank))
	assert.Equal(t, "pending", *TrimmedOrNil(&padded))
}
