package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModels(t *testing.T) {
	t.Run("ScanRecord TableName", func(t *testing.T) {
		rec := ScanRecord{}
		assert.Equal(t, "scan_records", rec.TableName())
	})

	t.Run("DisplayName with name", func(t *testing.T) {
		u := User{Name: "Alice", Email: "alice@example.com"}
		assert.Equal(t, "Alice", u.DisplayName())
	})

	t.Run("DisplayName falls back to email", func(t *testing.T) {
		u := User{Email: "alice@example.com"}
		assert.Equal(t, "alice@example.com", u.DisplayName())
	})
}
