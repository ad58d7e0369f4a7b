package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Log      string  `json:"log" validate:"required,logcode"`
	Cust     string  `json:"cust" validate:"custcode"`
	Artlo    *string `json:"artlo" validate:"omitempty,max=5,artcode"`
	Zip      *string `json:"zip" validate:"omitempty,zipcode"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Email    *string `json:"email" validate:"omitempty,contactemail"`
	Username string  `json:"username" validate:"required,min=3,max=64,username"`
	Logtype  *string `json:"logtype" validate:"omitempty,oneof=TR DP"`
	Hidden   string  `json:"-"`
}

var sampleMessages = Messages{
	"log":               "LOG# must be between 5 and 7 alphanumeric characters",
	"username.required": "Username is required",
	"username":          "Username is invalid",
}

func validSample() sample {
	return sample{
		Log:      "12345",
		Cust:     "ACME1",
		Artlo:    strPtr("A-1_b"),
		Zip:      strPtr("12345-6789"),
		Phone:    strPtr("(555) 123-4567"),
		Email:    strPtr("orders@acme.example"),
		Username: "alice.b",
	}
}

func TestValidateStructValid(t *testing.T) {
	assert.Empty(t, ValidateStruct(validSample(), sampleMessages))
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name string
		mutate   func(s *sample)
		field    string
		expected string
	}{
		{"short log", func(s *sample) { s.Log = "1234" }, "log", "LOG# must be between 5 and 7 alphanumeric characters"},
		{"long log", func(s *sample) { s.Log = "12345678" }, "log", "LOG# must be between 5 and 7 alphanumeric characters"},
		{"cust with symbol", func(s *sample) { s.Cust = "AC-E1" }, "cust", "cust failed validation (custcode)"},
		{"artlo too long", func(s *sample) { s.Artlo = strPtr("ABCDEF") }, "artlo", "artlo must be at most 5 characters"},
		{"artlo bad char", func(s *sample) { s.Artlo = strPtr("A/1") }, "artlo", "artlo failed validation (artcode)"},
		{"bad zip", func(s *sample) { s.Zip = strPtr("1234") }, "zip", "zip failed validation (zipcode)"},
		{"bad phone", func(s *sample) { s.Phone = strPtr("555-1234") }, "phone", "phone failed validation (phone)"},
		{"bad email", func(s *sample) { s.Email = strPtr("not-an-email") }, "email", "email failed validation (contactemail)"},
		{"missing username uses tag message", func(s *sample) { s.Username = "" }, "username", "Username is required"},
		{"bad username uses field message", func(s *sample) { s.Username = "al ice" }, "username", "Username is invalid"},
		{"oneof", func(s *sample) { s.Logtype = strPtr("ZZ") }, "logtype", "logtype must be one of: TR, DP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)

			fields := ValidateStruct(s, sampleMessages)
			assert.Len(t, fields, 1)
			assert.Equal(t, tt.expected, fields[tt.field])
		})
	}
}

func TestValidateStructOptionalEmptyPointers(t *testing.T) {
	s := validSample()
	s.Artlo = strPtr("")
	s.Zip = nil
	s.Phone = strPtr("")

	assert.Empty(t, ValidateStruct(s, sampleMessages))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("555.123.4567"))
	assert.True(t, ValidPhone("1 (555) 123-4567"))
	assert.False(t, ValidPhone("2 (555) 123-4567"))
	assert.False(t, ValidPhone("555-123-456"))
}
