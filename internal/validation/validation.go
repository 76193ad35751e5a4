package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ValidateServerURL проверяет адрес сервера и возвращает его без завершающего "/".
// Допускаются только http и https с непустым хостом.
func ValidateServerURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("server URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("server URL must use http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("server URL must contain a host")
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("server URL must not contain query or fragment")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// ValidateSessionID проверяет, что идентификатор сессии - UUID в канонической форме
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("session ID must be a UUID: %w", err)
	}

	if parsed.String() != id {
		return fmt.Errorf("session ID must be a canonical lowercase UUID")
	}

	return nil
}
