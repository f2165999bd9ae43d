package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Website  string `json:"githubLink" validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		input  signup
		fields map[string]string
	}{
		{
			name:   "valid",
			input:  signup{Username: "go-pher_1", Email: "g@example.com", Password: "Secret123"},
			fields: map[string]string{},
		},
		{
			name:  "missing everything",
			input: signup{},
			fields: map[string]string{
				"username": "Username is required",
				"email":    "Email is required",
				"password": "Password is required",
			},
		},
		{
			name:  "bad formats",
			input: signup{Username: "no spaces", Email: "nope", Password: "short", Website: "not a url"},
			fields: map[string]string{
				"username":   "Username can only contain letters, numbers, _ and -",
				"email":      "Invalid email address",
				"password":   "Password must be at least 8 characters",
				"githubLink": "Github link must be a valid URL",
			},
		},
		{
			name:  "weak password",
			input: signup{Username: "gopher", Email: "g@example.com", Password: "alllowercase"},
			fields: map[string]string{
				"password": "Password must contain at least one uppercase letter, one number",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.input)
			assert.Equal(t, ValidationErrors(tt.fields), errs)
			assert.Equal(t, len(tt.fields) > 0, errs.HasErrors())
		})
	}
}
