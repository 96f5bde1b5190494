package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/missions/api/internal/model"
)

func TestValidateStruct_Valid(t *testing.T) {
	ok := true
	assert.Nil(t, ValidateStruct(&model.CompleteMissionRequest{Success: &ok}))
	assert.Nil(t, ValidateStruct(&model.UpdatePreferencesRequest{Categories: []string{"food"}}))
}

func TestValidateStruct_MissingSuccess(t *testing.T) {
	errs := ValidateStruct(&model.CompleteMissionRequest{})

	require.Len(t, errs, 1)
	assert.Equal(t, "success", errs[0].Field)
	assert.Equal(t, "success is required", errs[0].Message)
}

func TestValidateStruct_FalseSuccessIsPresent(t *testing.T) {
	no := false
	assert.Nil(t, ValidateStruct(&model.CompleteMissionRequest{Success: &no}))
}

func TestValidateStruct_Preferences(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		field      string
	}{
		{"blank entry", []string{"food", ""}, "categories[1]"},
		{"entry too long", []string{strings.Repeat("x", 41)}, "categories[0]"},
		{"too many entries", make21(), "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(&model.UpdatePreferencesRequest{Categories: tt.categories})
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidateStruct_MissionVerificationMethod(t *testing.T) {
	m := model.Mission{
		ID:       "M001",
		Title:    "Coffee run",
		Category: "cafe",
		VerificationMethods: []model.VerificationMethod{
			{Type: "selfie", Description: "take a selfie"},
		},
	}

	errs := ValidateStruct(&m)

	require.Len(t, errs, 1)
	assert.Equal(t, "verification_methods[0].type", errs[0].Field)
	assert.Contains(t, errs[0].Message, "must be one of")
}

func make21() []string {
	out := make([]string, 21)
	for i := range out {
		out[i] = "food"
	}
	return out
}
