package collider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinedFrictionMultipliesSqrtTerms(t *testing.T) {

	got := CombinedFriction(Iron, Rubber)
	assert.InDelta(t, Iron.FrictionSqrt*Rubber.FrictionSqrt, got, 1e-6)
}

func TestCombinedRestitutionTakesLarger(t *testing.T) {

	assert.Equal(t, Rubber.Restitution, CombinedRestitution(Iron, Rubber))
	assert.Equal(t, Rubber.Restitution, CombinedRestitution(Rubber, Iron))
}

func TestGroundMaterialIsEffectivelyImmovable(t *testing.T) {

	assert.Greater(t, Ground.Density, Concrete.Density)
}
