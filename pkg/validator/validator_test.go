package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewInput struct {
	Title       string `validate:"required,max=255"`
	Content     string `validate:"max=10000"`
	Score       int    `validate:"required,gte=1,lte=5"`
	CompanyType string `validate:"omitempty,oneof=unknown personal government"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(reviewInput{Title: "Great place", Score: 4})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(reviewInput{Score: 4})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["Title"])
}

func TestValidate_ScoreOutOfRange(t *testing.T) {
	err := Validate(reviewInput{Title: "x", Score: 6})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Score"], "less than or equal to 5")
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(reviewInput{Title: "x", Score: 3, CompanyType: "startup"})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["CompanyType"], "must be one of")
}

func TestValidate_MultipleFailures(t *testing.T) {
	err := Validate(reviewInput{})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "Title")
	assert.Contains(t, fields, "Score")
	assert.Contains(t, err.Error(), "Title")
	assert.Contains(t, err.Error(), "Score")
}
