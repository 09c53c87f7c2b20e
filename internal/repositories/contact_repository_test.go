package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"imob-followup/internal/models"
)

func TestMemoryContactRepositoryCopies(t *testing.T) {
	repo := NewMemoryContactRepository()
	input := []models.Contact{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bruno"}}

	repo.ReplaceAll(input)
	input[0].Name = "mutated"

	all := repo.GetAll()
	require.Len(t, all, 2)
	require.Equal(t, "Ana", all[0].Name)

	all[1].Name = "mutated"
	c, ok := repo.GetByID("b")
	require.True(t, ok)
	require.Equal(t, "Bruno", c.Name)

	_, ok = repo.GetByID("zzz")
	require.False(t, ok)
}
