package account_test

import (
	"testing"

	"clouddrive/internal/model/account"

	"github.com/stretchr/testify/assert"
)

func TestStorageFree(t *testing.T) {
	t.Run("space left", func(t *testing.T) {
		s := account.Storage{Used: 600, Quota: 1000}
		assert.Equal(t, int64(400), s.Free())
	})

	t.Run("over quota", func(t *testing.T) {
		s := account.Storage{Used: 1200, Quota: 1000}
		assert.Equal(t, int64(0), s.Free())
	})
}
