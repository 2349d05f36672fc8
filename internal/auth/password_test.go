package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "s3cret"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
}

func TestPasswordHasher_OutOfRangeCostFallsBack(t *testing.T) {
	// Zero and absurd costs must still produce a usable hasher.
	for _, cost := range []int{0, -1, 99} {
		hasher := NewPasswordHasher(cost)
		hash, err := hasher.Hash("s3cret")
		require.NoError(t, err, "cost %d", cost)
		assert.NoError(t, hasher.Compare(hash, "s3cret"))
	}
}
