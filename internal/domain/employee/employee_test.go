package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

func TestNewEmployee(t *testing.T) {
	e, err := NewEmployee("EMP001", "Priya Sharma", "priya.sharma@fleetpro.in", "+91 98765 43210", "Engineering", "09:00-18:00", "Sector 62, Noida")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, e.Status())
	assert.Equal(t, int64(1), e.Version())

	_, err = NewEmployee("", "x", "x@y.z", "", "", "", "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewEmployee("EMP002", "x", "not-an-email", "", "", "", "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestEmployee_Apply(t *testing.T) {
	e, err := NewEmployee("EMP001", "Priya Sharma", "priya.sharma@fleetpro.in", "", "Engineering", "09:00-18:00", "Sector 62, Noida")
	require.NoError(t, err)

	dept := "Finance"
	leave := StatusOnLeave
	require.NoError(t, e.Apply(Patch{Department: &dept, Status: &leave}))
	assert.Equal(t, "Finance", e.Department())
	assert.Equal(t, StatusOnLeave, e.Status())
	assert.Equal(t, "Sector 62, Noida", e.PickupLocation())

	bogus := Status("fired")
	err = e.Apply(Patch{Status: &bogus})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
	assert.Equal(t, StatusOnLeave, e.Status())

	assert.Error(t, e.Apply(Patch{}))
}
