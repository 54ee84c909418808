package validation

import (
	"errors"
	"testing"

	apperrors "go-image-editor/internal/errors"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Fatalf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
	if len(validator.allowedHosts) != 0 {
		t.Errorf("Expected no host restrictions, got %v", validator.allowedHosts)
	}
}

func TestValidateImageURL(t *testing.T) {
	validator := NewURLValidator()

	testCases := []struct {
		name    string
		url     string
		message string
	}{
		{"HTTP", "http://example.com/image.jpg", ""},
		{"HTTPS", "https://example.com/image.png", ""},
		{"Subdomain", "https://subdomain.example.com/path/to/image.gif", ""},
		{"IP host", "http://192.168.1.1/image.jpg", ""},
		{"Blob URL", "https://account.blob.core.windows.net/images?blob=cat.png", ""},
		{"Empty", "", "URL cannot be empty"},
		{"Whitespace", " \t\n", "URL cannot be empty"},
		{"Missing scheme", "://missing-scheme", "Invalid URL format"},
		{"Relative", "not-a-url", "URL scheme not allowed"},
		{"FTP", "ftp://example.com/image.jpg", "URL scheme not allowed"},
		{"File", "file://local/path/image.jpg", "URL scheme not allowed"},
		{"Data", "data:image/png;base64,iVBORw0KGgo=", "URL scheme not allowed"},
		{"No host", "http://", "URL must have a valid host"},
		{"Triple slash", "http:///path", "URL must have a valid host"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tc.url)
			if tc.message == "" {
				if err != nil {
					t.Errorf("Expected %q to pass validation, got error: %v", tc.url, err)
				}
				return
			}

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got: %T", err)
			}
			if appErr.Message != tc.message {
				t.Errorf("Expected %q, got: %s", tc.message, appErr.Message)
			}
			if appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("Expected validation error, got %s", appErr.Type)
			}
		})
	}
}

func TestValidateImageURL_RestrictedHosts(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"example.com", "trusted.com"})

	for _, url := range []string{
		"http://example.com/image.jpg",
		"https://trusted.com:8443/image.png",
		"https://EXAMPLE.com/image.png",
	} {
		if err := validator.ValidateImageURL(url); err != nil {
			t.Errorf("Expected allowed host URL '%s' to pass validation, got error: %v", url, err)
		}
	}

	for _, url := range []string{
		"http://malicious.com/image.jpg",
		"https://untrusted.com/image.png",
	} {
		err := validator.ValidateImageURL(url)
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Message != "URL host not allowed" {
			t.Errorf("Expected '%s' to be rejected as a disallowed host, got %v", url, err)
		}
	}
}

func TestIsSchemeAllowed(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, nil)

	if !validator.isSchemeAllowed("https") || !validator.isSchemeAllowed("HTTPS") {
		t.Error("Expected https scheme to be allowed")
	}
	if validator.isSchemeAllowed("http") {
		t.Error("Expected http scheme to be disallowed")
	}
}
