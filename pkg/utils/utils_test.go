package utils

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorMessage(t *testing.T) {
	err := NewPersistenceError("quota exceeded")
	assert.Equal(t, http.StatusInsufficientStorage, err.Code)
	assert.Equal(t, "Failed to save resume data: quota exceeded", err.Error())

	missing := NewMissingSessionError()
	assert.Equal(t, "/", missing.Redirect)
	assert.Equal(t, "MISSING_SESSION", missing.Kind)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ms", FormatDuration(500*time.Millisecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.0m", FormatDuration(2*time.Minute))
	assert.Equal(t, "3.0h", FormatDuration(3*time.Hour))
}

func TestIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateProcessID(), "exp_"))
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}

func TestExportObjectKey(t *testing.T) {
	assert.Equal(t, "resumes/exports/abc/Jane_Doe_Resume.pdf", ExportObjectKey("abc", "Jane_Doe_Resume.pdf"))
}

func TestObjectURLPrefersCDN(t *testing.T) {
	sc := &SpacesClient{bucketName: "b", region: "blr1", cdnURL: "https://cdn.example.com/"}
	assert.Equal(t, "https://cdn.example.com/k", sc.objectURL("k"))

	sc = &SpacesClient{bucketName: "b", region: "blr1", bucketURL: "b.blr1.digitaloceanspaces.com"}
	assert.Equal(t, "https://b.blr1.digitaloceanspaces.com/k", sc.objectURL("k"))

	sc = &SpacesClient{bucketName: "b", region: "blr1"}
	assert.Equal(t, "https://b.blr1.digitaloceanspaces.com/k", sc.objectURL("k"))
}
