package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{name: "duplicate key", input: gorm.ErrDuplicatedKey, expected: domain.ErrAlreadyExists},
		{name: "record not found", input: gorm.ErrRecordNotFound, expected: domain.ErrNotFound},
		{name: "foreign key", input: gorm.ErrForeignKeyViolated, expected: domain.ErrValidation},
		{
			name:     "joined duplicate key",
			input:    errors.Join(errors.New("outer"), gorm.ErrDuplicatedKey),
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "wrapped not found",
			input:    fmt.Errorf("query users: %w", gorm.ErrRecordNotFound),
			expected: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapGormErrorToDomain(tt.input), tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_PassThrough(t *testing.T) {
	t.Parallel()

	require.NoError(t, MapGormErrorToDomain(nil))

	custom := errors.New("connection reset")
	assert.Same(t, custom, MapGormErrorToDomain(custom))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	require.NoError(t, WrapError(func() error { return nil }))
	assert.ErrorIs(t, WrapError(func() error { return gorm.ErrDuplicatedKey }), domain.ErrAlreadyExists)
	assert.EqualError(t, WrapError(func() error { return errors.New("custom error") }), "custom error")
}
