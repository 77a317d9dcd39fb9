package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMissingReciprocal, "%s is not married to %s", "b", "a")

	if err.Code != ErrCodeMissingReciprocal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingReciprocal)
	}

	if err.Message != "b is not married to a" {
		t.Errorf("Message = %v, want %v", err.Message, "b is not married to a")
	}

	expected := "MISSING_RECIPROCAL: b is not married to a"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidDocument, cause, "decode family.yaml")

	if err.Code != ErrCodeInvalidDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDocument)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnionCollision, "test"),
			code:     ErrCodeUnionCollision,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUnionCollision, "test"),
			code:     ErrCodeLookupFailed,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidDocument, New(ErrCodeInvalidDate, "inner"), "outer"),
			code:     ErrCodeInvalidDocument,
			expected: true,
		},
		{
			name:     "joined",
			err:      errorsJoin(New(ErrCodeParentConflict, "inner")),
			code:     ErrCodeParentConflict,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeMarriageDateMismatch, "test"), ErrCodeMarriageDateMismatch},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	consistency := []Code{
		ErrCodeMissingReciprocal,
		ErrCodeMarriageDateMismatch,
		ErrCodeUnionCollision,
		ErrCodeParentConflict,
		ErrCodeDuplicateIdentity,
	}
	for _, code := range consistency {
		err := New(code, "x")
		if !IsDataConsistency(err) {
			t.Errorf("IsDataConsistency(%s) = false", code)
		}
		if IsLookup(err) {
			t.Errorf("IsLookup(%s) = true", code)
		}
	}

	for _, code := range []Code{ErrCodeLookupFailed, ErrCodeUnknownOrigin} {
		err := New(code, "x")
		if !IsLookup(err) {
			t.Errorf("IsLookup(%s) = false", code)
		}
		if IsDataConsistency(err) {
			t.Errorf("IsDataConsistency(%s) = true", code)
		}
	}

	if IsDataConsistency(errors.New("plain")) || IsLookup(nil) {
		t.Error("plain errors must not be categorized")
	}
}
