package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		in         Page
		want       Page
		wantOffset int
	}{
		{Page{}, Page{Page: 1, Limit: DefaultPageSize}, 0},
		{Page{Page: 3, Limit: 10}, Page{Page: 3, Limit: 10}, 20},
		{Page{Page: -2, Limit: 500}, Page{Page: 1, Limit: MaxPageSize}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
		assert.Equal(t, tt.wantOffset, tt.in.Offset())
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), ErrDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}
