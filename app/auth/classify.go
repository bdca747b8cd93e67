package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	alreadyRegisteredPhrases = []string{"already registered", "already exists", "already been registered"}
	invalidEmailPhrases      = []string{"invalid format", "unable to validate email", "invalid email"}
	weakPasswordPhrases      = []string{"password should be at least", "password is too short"}
	invalidLoginPhrases      = []string{"invalid login credentials", "invalid credentials", "invalid_grant"}
	duplicatePhrases         = []string{"duplicate key", "unique constraint", "already exists"}
)

// The structured provider code is trusted first; message text is only
// consulted when no known code is present.

func classifySignUp(err error) error {
	switch providerCode(err) {
	case "user_already_exists", "email_exists":
		return fmt.Errorf("%w: %w", ErrAlreadyRegistered, err)
	case "email_address_invalid":
		return fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	case "weak_password":
		return fmt.Errorf("%w: %w", ErrPasswordTooShort, err)
	}

	text := providerText(err)
	switch {
	case containsAny(text, alreadyRegisteredPhrases):
		return fmt.Errorf("%w: %w", ErrAlreadyRegistered, err)
	case containsAny(text, invalidEmailPhrases):
		return fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	case containsAny(text, weakPasswordPhrases):
		return fmt.Errorf("%w: %w", ErrPasswordTooShort, err)
	}

	return fmt.Errorf("%w: %w", ErrUnknown, err)
}

func classifySignIn(err error) error {
	switch providerCode(err) {
	case "invalid_credentials", "invalid_grant":
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	if containsAny(providerText(err), invalidLoginPhrases) {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	return fmt.Errorf("%w: %w", ErrUnknown, err)
}

func classifyInsert(err error) error {
	if providerCode(err) == "23505" {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}

	if containsAny(providerText(err), duplicatePhrases) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}

	return fmt.Errorf("%w: %w", ErrUnknown, err)
}

func providerCode(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return strings.ToLower(providerErr.Code)
	}
	return ""
}

func providerText(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return strings.ToLower(providerErr.Message)
	}
	return strings.ToLower(err.Error())
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
