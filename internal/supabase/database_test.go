package supabase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	storage "github.com/supabase-community/storage-go"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate key")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsObjectNotFound(t *testing.T) {
	assert.True(t, isObjectNotFound(errors.New("Object not found")))
	assert.True(t, isObjectNotFound(errors.New("status 404")))
	assert.True(t, isObjectNotFound(&storage.StorageError{Status: 404, Message: "missing"}))
	assert.False(t, isObjectNotFound(errors.New("connection refused")))
}

func TestStoragePath(t *testing.T) {
	assert.Equal(t, "uploads/abc.docx", storagePath("abc.docx"))
}
