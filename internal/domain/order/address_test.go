package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		Street: "12 Rue Didouche Mourad",
		City:   "Algiers",
		Name:   "Amina Benali",
		Phone:  "0551234567",
		Wilaya: "16",
	}
}

func TestAddressValidate_OK(t *testing.T) {
	require.NoError(t, validAddress().Validate())
}

func TestAddressValidate_OptionalFields(t *testing.T) {
	a := validAddress()
	a.Street = ""
	a.City = ""
	require.NoError(t, a.Validate())
}

func TestAddressValidate_Name(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		a := validAddress()
		a.Name = ""

		var vErr *ValidationError
		require.ErrorAs(t, a.Validate(), &vErr)
		assert.Equal(t, "name", vErr.Field)
	})

	t.Run("too short", func(t *testing.T) {
		a := validAddress()
		a.Name = "Ali"

		var vErr *ValidationError
		require.ErrorAs(t, a.Validate(), &vErr)
		assert.Equal(t, "name", vErr.Field)
	})

	t.Run("too long", func(t *testing.T) {
		a := validAddress()
		a.Name = "Abdelkader Mohammed El Amine Boukhalfa Senior"

		var vErr *ValidationError
		require.ErrorAs(t, a.Validate(), &vErr)
		assert.Equal(t, "name", vErr.Field)
	})

	t.Run("bounds inclusive", func(t *testing.T) {
		a := validAddress()
		a.Name = "Aicha" // 5 runes
		require.NoError(t, a.Validate())

		a.Name = "Abcdefghijklmnopqrstuvwxyz1234" // 30 runes
		require.NoError(t, a.Validate())
	})
}

func TestAddressValidate_Phone(t *testing.T) {
	cases := map[string]string{
		"missing":     "",
		"too short":   "055123456",
		"too long":    "05512345678",
		"non-numeric": "05512345ab",
		"with dashes": "055-123-45",
	}

	for name, phone := range cases {
		t.Run(name, func(t *testing.T) {
			a := validAddress()
			a.Phone = phone

			var vErr *ValidationError
			require.ErrorAs(t, a.Validate(), &vErr)
			assert.Equal(t, "phone", vErr.Field)
		})
	}
}

func TestAddressValidate_Wilaya(t *testing.T) {
	a := validAddress()
	a.Wilaya = ""

	var vErr *ValidationError
	require.ErrorAs(t, a.Validate(), &vErr)
	assert.Equal(t, "wilaya", vErr.Field)
}
