package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Run("strong password passes", func(t *testing.T) {
		assert.Empty(t, validatePassword("Tr0p-Secret-123!"))
	})

	t.Run("too short", func(t *testing.T) {
		problems := validatePassword("Ab1!x")
		assert.Contains(t, problems, "Le mot de passe doit contenir au moins 11 caractères")
	})

	t.Run("missing character classes", func(t *testing.T) {
		problems := validatePassword("toutenminuscules")
		assert.Contains(t, problems, "Le mot de passe doit contenir au moins une majuscule")
		assert.Contains(t, problems, "Le mot de passe doit contenir au moins un chiffre")
		assert.Contains(t, problems, "Le mot de passe doit contenir au moins un symbole")
		assert.NotContains(t, problems, "Le mot de passe doit contenir au moins une minuscule")
	})

	t.Run("length counts characters, not bytes", func(t *testing.T) {
		// 8 accented characters span 14 bytes but are still too short
		problems := validatePassword("Àà1!Ééçî")
		assert.Contains(t, problems, "Le mot de passe doit contenir au moins 11 caractères")
	})

	t.Run("empty password fails everything", func(t *testing.T) {
		assert.Len(t, validatePassword(""), 5)
	})
}

func TestEmailValidation(t *testing.T) {
	valid := []string{"jean@test.com", "jean.dupont@mail.example.fr", "a@b.co"}
	for _, e := range valid {
		assert.True(t, emailRe.MatchString(e), e)
	}

	invalid := []string{"", "jean", "jean@", "@test.com", "jean@test", "jean dupont@test.com"}
	for _, e := range invalid {
		assert.False(t, emailRe.MatchString(e), e)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jean@test.com", normalizeEmail("  Jean@Test.COM "))
	assert.Equal(t, "jean@test.com", normalizeEmail("jean@test.com"))
}
