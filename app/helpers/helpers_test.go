package helpers

import (
	"testing"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() models.AddressForm {
	return models.AddressForm{
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Address:  "12 MG Road, Indiranagar",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "500001",
	}
}

func TestValidateAddress(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(*models.AddressForm)
		fields []string
	}{
		{"valid", func(*models.AddressForm) {}, nil},
		{"short pincode", func(f *models.AddressForm) { f.Pincode = "5000" }, []string{"pincode"}},
		{"letters in pincode", func(f *models.AddressForm) { f.Pincode = "50000a" }, []string{"pincode"}},
		{"seven digit pincode", func(f *models.AddressForm) { f.Pincode = "5000011" }, []string{"pincode"}},
		{"one letter name", func(f *models.AddressForm) { f.FullName = "A" }, []string{"fullName"}},
		{"short phone", func(f *models.AddressForm) { f.Phone = "98765" }, []string{"phone"}},
		{"short address", func(f *models.AddressForm) { f.Address = "MG Road" }, []string{"address"}},
		{"empty form", func(f *models.AddressForm) { *f = models.AddressForm{} }, []string{"fullName", "phone", "address", "city", "state", "pincode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validAddress()
			tt.mutate(&form)
			before := form

			errs := ValidateStruct(v, form)

			assert.Equal(t, before, form)
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	form := validAddress()
	form.Pincode = "5000"
	form.FullName = ""

	errs := ValidateStruct(NewValidator(), form)

	assert.Equal(t, "Pincode must be exactly 6 digits.", errs["pincode"])
	assert.Equal(t, "Full name is required.", errs["fullName"])
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("sweet-tooth")
	require.NoError(t, err)

	assert.True(t, PasswordCompare(hash, []byte("sweet-tooth")))
	assert.False(t, PasswordCompare(hash, []byte("sour-tooth")))
}
