package utils_test

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

type TestModel struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72,maxbytes=72"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errContains string
	}{
		{
			name:        "Valid JSON",
			requestBody: `{"name":"John","email":"john@example.com","password":"p1"}`,
			wantErr:     false,
		},
		{
			name:        "Invalid JSON syntax",
			requestBody: `{"name":"John","email":john@example.com","password":"p1"}`,
			wantErr:     true,
			errContains: "malformed JSON",
		},
		{
			name:        "Empty request body",
			requestBody: "",
			wantErr:     true,
			errContains: "empty",
		},
		{
			name:        "Unknown field",
			requestBody: `{"name":"John","email":"john@example.com","password":"p1","role":"admin"}`,
			wantErr:     true,
			errContains: "unknown field",
		},
		{
			name:        "Wrong type",
			requestBody: `{"name":42,"email":"john@example.com","password":"p1"}`,
			wantErr:     true,
			errContains: "Must be a string",
		},
		{
			name:        "Trailing object",
			requestBody: `{"name":"John","email":"john@example.com","password":"p1"}{"name":"x"}`,
			wantErr:     true,
			errContains: "single JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestBody io.Reader
			if tt.requestBody != "" {
				requestBody = bytes.NewBufferString(tt.requestBody)
			}

			req := httptest.NewRequest("POST", "/", requestBody)
			req.Header.Set("Content-Type", "application/json")

			var model TestModel
			err := utils.DecodeJSON(req, &model)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("DecodeJSON() error = %v, should contain %q", err, tt.errContains)
			}
		})
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", 2*1024*1024) + `"}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var model TestModel
	err := utils.DecodeJSON(req, &model)
	if err == nil {
		t.Fatal("DecodeJSON() should reject oversized bodies")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("DecodeJSON() error = %v, want body too large", err)
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		model     TestModel
		wantErr   bool
		wantField string
	}{
		{
			name:    "Valid model",
			model:   TestModel{Name: "John", Email: "john@example.com", Password: "p1"},
			wantErr: false,
		},
		{
			name:      "Missing name",
			model:     TestModel{Email: "john@example.com", Password: "p1"},
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "Blank name",
			model:     TestModel{Name: "   ", Email: "john@example.com", Password: "p1"},
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "Invalid email",
			model:     TestModel{Name: "John", Email: "not-an-email", Password: "p1"},
			wantErr:   true,
			wantField: "email",
		},
		{
			name:      "Password too long for bcrypt",
			model:     TestModel{Name: "John", Email: "john@example.com", Password: strings.Repeat("x", 73)},
			wantErr:   true,
			wantField: "password",
		},
		{
			name:      "Multibyte password over 72 bytes",
			model:     TestModel{Name: "John", Email: "john@example.com", Password: strings.Repeat("é", 72)},
			wantErr:   true,
			wantField: "password",
		},
		{
			name:    "Multibyte password of exactly 72 bytes",
			model:   TestModel{Name: "John", Email: "john@example.com", Password: strings.Repeat("é", 36)},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateStruct(tt.model)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			var appErr *utils.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("ValidateStruct() should return *AppError, got %T", err)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("ValidateStruct() field = %v, want %v", appErr.Field, tt.wantField)
			}
			if !utils.IsValidationError(err) {
				t.Errorf("ValidateStruct() should return a validation error")
			}
		})
	}
}

func TestValidateStructConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- utils.ValidateStruct(TestModel{Name: "John", Email: "john@example.com", Password: "p1"})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("ValidateStruct() unexpected error = %v", err)
		}
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	err := utils.ValidateStruct(TestModel{})

	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("ValidateStruct() should return *AppError, got %T", err)
	}
	if len(appErr.Details) != 3 {
		t.Errorf("expected details for 3 fields, got %v", appErr.Details)
	}
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := appErr.Details[field]; !ok {
			t.Errorf("missing detail for %s", field)
		}
	}
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"John","email":"bad","password":"p1"}`))

	var model TestModel
	err := utils.DecodeAndValidate(req, &model)
	if err == nil {
		t.Fatal("DecodeAndValidate() should fail on invalid email")
	}
	if model.Name != "John" {
		t.Errorf("DecodeAndValidate() should decode before validating, got name %q", model.Name)
	}
}
