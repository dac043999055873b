package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest_FindsATypoedSibling(t *testing.T) {
	best, ok := Closest("Attempt", []string{"Attempts", "Setup", "Teardown"})
	assert.True(t, ok)
	assert.Equal(t, "Attempts", best)
}

func TestClosest_NoCandidateClearsThreshold(t *testing.T) {
	_, ok := Closest("Attempt", []string{"Setup", "Teardown"})
	assert.False(t, ok)
}

func TestClosest_EmptyCandidatesReportsFalse(t *testing.T) {
	_, ok := Closest("Attempt", nil)
	assert.False(t, ok)
}

func TestClosest_PicksTheBestOfMultiplePlausibleMatches(t *testing.T) {
	best, ok := Closest("Attemt", []string{"Attempt", "Attempts", "Setup"})
	assert.True(t, ok)
	assert.Equal(t, "Attempt", best)
}
