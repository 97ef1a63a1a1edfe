package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalContent = `{
	"experience": [],
	"education": [],
	"stacks": [{"id": 1, "name": "Go", "skill_level": 90, "category": "Languages"}],
	"projects": [],
	"statistics": {"projects": 12, "experience": 4, "clients": 8}
}`

func TestValidateContent_Valid(t *testing.T) {
	assert.NoError(t, ValidateContent([]byte(minimalContent)))
}

func TestValidateContent_MissingStatistics(t *testing.T) {
	doc := `{"experience": [], "education": [], "stacks": [], "projects": []}`

	err := ValidateContent([]byte(doc))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateContent_SkillLevelOutOfRange(t *testing.T) {
	doc := `{
		"experience": [], "education": [], "projects": [],
		"stacks": [{"id": 1, "name": "Go", "skill_level": 140, "category": "Languages"}],
		"statistics": {"projects": 0, "experience": 0, "clients": 0}
	}`

	err := ValidateContent([]byte(doc))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Contains(t, validationErr.Error(), "stacks.0.skill_level")
}

func TestValidateContent_UnknownDeviceType(t *testing.T) {
	doc := `{
		"experience": [], "education": [], "stacks": [],
		"projects": [{"id": 1, "name": "X", "description": "d", "category": "Web App", "device_type": "watch", "images": []}],
		"statistics": {"projects": 0, "experience": 0, "clients": 0}
	}`

	err := ValidateContent([]byte(doc))
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestValidateContent_NotJSON(t *testing.T) {
	err := ValidateContent([]byte("{ not json"))
	require.Error(t, err)

	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "malformed documents surface as SchemaLoadError")
}

func TestValidateBytes_InvalidSchema(t *testing.T) {
	err := ValidateBytes([]byte(`{"type": 12}`), []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "content.schema.json")
	jsonPath := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(schemaPath, ContentSchema, 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(minimalContent), 0644))

	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "content.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, ContentSchema, 0644))

	err := ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "stacks.0.skill_level", Message: "Must be less than or equal to 100"},
			{Field: "statistics", Message: "statistics is required"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. stacks.0.skill_level")
	assert.Contains(t, msg, "2. statistics")
}
