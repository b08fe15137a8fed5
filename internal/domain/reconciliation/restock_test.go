package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRestockPolicy(t *testing.T) {
	p := DefaultRestockPolicy()
	assert.True(t, p.Restocks(ReasonWrongItem))
	assert.True(t, p.Restocks(ReasonChangedMind))
	assert.False(t, p.Restocks(ReasonDamaged))
	assert.False(t, p.Restocks(ReasonExpired))
	assert.Equal(t, []ReturnReason{ReasonWrongItem, ReasonChangedMind}, p.RestockableReasons())
}

func TestParseRestockPolicy(t *testing.T) {
	p, err := ParseRestockPolicy([]string{"damaged", "Wrong Item"})
	require.NoError(t, err)
	assert.True(t, p.Restocks(ReasonDamaged))
	assert.True(t, p.Restocks(ReasonWrongItem))
	assert.False(t, p.Restocks(ReasonChangedMind))

	_, err = ParseRestockPolicy([]string{"stolen"})
	assertCode(t, err, "INVALID_REASON")
}

func TestReturnReason_Label(t *testing.T) {
	assert.Equal(t, "Wrong Item", ReasonWrongItem.Label())
	assert.Equal(t, "Changed Mind", ReasonChangedMind.Label())
	assert.Equal(t, "Expired", ReasonExpired.Label())
}
