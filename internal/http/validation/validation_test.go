package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	SuccessURL  string `json:"success_url" binding:"required"`
	Note        string `form:"note" binding:"max=10"`
}

// gin runs validator with the binding tag; mirror that here.
func newBindingValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func TestFromBindErrorMapsFieldsByJSONTag(t *testing.T) {
	err := newBindingValidator().Struct(&sampleRequest{})
	require.Error(t, err)

	fields := FromBindError(err, &sampleRequest{})
	assert.Equal(t, "This field is required.", fields["amount_cents"])
	assert.Equal(t, "This field is required.", fields["success_url"])
}

func TestFromBindErrorFallsBackToFormTag(t *testing.T) {
	err := newBindingValidator().Struct(&sampleRequest{
		AmountCents: 1,
		SuccessURL:  "x",
		Note:        "way too long note",
	})
	require.Error(t, err)

	fields := FromBindError(err, &sampleRequest{})
	assert.Equal(t, "Must be at most 10.", fields["note"])
}

func TestFromBindErrorNonValidationError(t *testing.T) {
	fields := FromBindError(errors.New("unexpected EOF"), &sampleRequest{})
	assert.Equal(t, "Request data is invalid.", fields["_"])
}
