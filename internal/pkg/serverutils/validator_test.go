package serverutils

import (
	"testing"

	"characterhub-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name        string   `validate:"required"`
	Temperature *float64 `validate:"omitempty,gte=0,lte=2"`
}

func TestValidateRequest_OK(t *testing.T) {
	temp := 1.5
	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "Aria", Temperature: &temp}))
	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "Aria"}))
}

func TestValidateRequest_FieldDetails(t *testing.T) {
	temp := 5.0
	err := ValidateRequest(&sampleRequest{Temperature: &temp})
	require.Error(t, err)

	ae, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Contains(t, ae.Details, "Name")
	assert.Contains(t, ae.Details, "Temperature")
	assert.Equal(t, "failed on the 'required' rule", ae.Details["Name"])
	assert.Equal(t, "failed on the 'lte' rule", ae.Details["Temperature"])
}
