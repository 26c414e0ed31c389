package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidTree, "tree %s is malformed", "t1"),
			want: "INVALID_TREE: tree t1 is malformed",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeStore, stderrors.New("connection refused"), "load tree %s", "t2"),
			want: "STORE_ERROR: load tree t2: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeTreeNotFound, "no such tree")
	if !Is(err, ErrCodeTreeNotFound) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeInvalidTree) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeTreeNotFound) {
		t.Error("Is() should not match a non-structured error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodePersonNotFound, "person p1 missing")
	outer := fmt.Errorf("handling request: %w", inner)

	if !Is(outer, ErrCodePersonNotFound) {
		t.Error("Is() should unwrap standard error chains")
	}
	if GetCode(outer) != ErrCodePersonNotFound {
		t.Errorf("GetCode() = %q, want %q", GetCode(outer), ErrCodePersonNotFound)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStore, cause, "persist layout")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidRelationship, "source equals target")
	if got := UserMessage(err); strings.Contains(got, "INVALID_RELATIONSHIP") {
		t.Errorf("UserMessage() should strip the code prefix, got %q", got)
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "boom")
	}
}
