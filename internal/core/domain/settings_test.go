package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndexBackend_IsValid(t *testing.T) {
	assert.True(t, IndexBackendBruteForce.IsValid())
	assert.True(t, IndexBackendIVF.IsValid())
	assert.False(t, IndexBackend("hnsw").IsValid())
	assert.False(t, IndexBackend("").IsValid())
}

func TestIndexBackend_Description(t *testing.T) {
	assert.Contains(t, IndexBackendIVF.Description(), "IVF")
	assert.Contains(t, IndexBackendBruteForce.Description(), "Brute")
	assert.Equal(t, "Unknown", IndexBackend("bogus").Description())
}

func TestSettings_Normalise(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		s := Settings{}.Normalise()
		assert.Equal(t, DefaultDimension, s.Dimension)
		assert.Equal(t, IndexBackendIVF, s.Backend)
		assert.Equal(t, DefaultNLists, s.NLists)
		assert.Equal(t, DefaultNProbe, s.NProbe)
		assert.Equal(t, DefaultRetrainInterval, s.RetrainInterval)
		assert.Equal(t, DefaultMaxResults, s.MaxResults)
	})

	t.Run("nprobe clamped to nlists", func(t *testing.T) {
		s := Settings{NLists: 4, NProbe: 16}.Normalise()
		assert.Equal(t, 4, s.NProbe)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		s := Settings{
			Dimension:       3,
			Backend:         IndexBackendBruteForce,
			RetrainInterval: time.Minute,
		}.Normalise()
		assert.Equal(t, 3, s.Dimension)
		assert.Equal(t, IndexBackendBruteForce, s.Backend)
		assert.Equal(t, time.Minute, s.RetrainInterval)
	})
}
