package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("unexpected token")

	err := New(ParseFailed, "src/app.ts", cause)

	if err.Code != ParseFailed {
		t.Errorf("Code = %v, want %v", err.Code, ParseFailed)
	}
	if err.Message != "src/app.ts" {
		t.Errorf("Message = %q, want %q", err.Message, "src/app.ts")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestFtaError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      IOError,
			message:   "open cache",
			cause:     errors.New("permission denied"),
			wantParts: []string{"IO_ERROR", "open cache", "permission denied"},
		},
		{
			name:      "without cause",
			code:      ConfigNotFound,
			message:   "config file ./missing.json not found",
			cause:     nil,
			wantParts: []string{"CONFIG_NOT_FOUND", "./missing.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.cause)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestFtaError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "something went wrong", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}

	if Newf(ScoreCapExceeded, "score %d", 3).Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestFtaError_WithDetails(t *testing.T) {
	err := Newf(ScoreCapExceeded, "a.ts scored 120")
	details := map[string]float64{"score": 120, "cap": 100}

	if result := err.WithDetails(details); result != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", New(ConfigInvalid, "output_limit", nil))

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), InternalError},
		{"direct", Newf(IOError, "disk"), IOError},
		{"wrapped", wrapped, ConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	inner := New(ParseFailed, "b.tsx", errors.New("syntax"))
	outer := New(IOError, "batch", inner)

	if !HasCode(outer, IOError) || !HasCode(outer, ParseFailed) {
		t.Error("HasCode should find both codes in the chain")
	}
	if HasCode(outer, ConfigInvalid) {
		t.Error("HasCode found a code that is not in the chain")
	}
	if HasCode(errors.New("plain"), InternalError) {
		t.Error("plain errors carry no code")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
		wantLen int
	}{
		{ParseFailed, false, 1},
		{ConfigInvalid, false, 1},
		{ConfigNotFound, false, 1},
		{ScoreCapExceeded, false, 1},
		{IOError, true, 0},       // No predefined fixes
		{InternalError, true, 0}, // No predefined fixes
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)

			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) != tt.wantLen {
				t.Errorf("GetSuggestedFixes(%v) len = %d, want %d", tt.code, len(fixes), tt.wantLen)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ParseFailed,
		ConfigInvalid,
		ConfigNotFound,
		ScoreCapExceeded,
		IOError,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true

		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestErrorActionsMap(t *testing.T) {
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
			if fix.Description == "" {
				t.Errorf("ErrorActions[%v][%d].Description is empty", code, i)
			}
		}
	}
}
