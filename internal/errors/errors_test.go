package errors

import (
	"fmt"
	"testing"
)

func TestLoomError_Error(t *testing.T) {
	err := &LoomError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "fragment not found",
	}

	expected := "NOT_FOUND: fragment not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("identifier is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "identifier is required" {
		t.Errorf("Message = %q, want %q", err.Message, "identifier is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("lore")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "lore" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "lore")
	}
}

func TestNewProtectedPrompt(t *testing.T) {
	err := NewProtectedPrompt("chatHistory", "deleted")

	if err.Code != ErrProtectedPrompt {
		t.Errorf("Code = %q, want %q", err.Code, ErrProtectedPrompt)
	}
	if err.Status != 403 {
		t.Errorf("Status = %d, want 403", err.Status)
	}
	if err.Details["identifier"] != "chatHistory" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "chatHistory")
	}
	if err.Details["action"] != "deleted" {
		t.Errorf("Details[action] = %v, want %q", err.Details["action"], "deleted")
	}
}

func TestNewProtectedPreset(t *testing.T) {
	err := NewProtectedPreset("Default", "renamed")

	if err.Code != ErrProtectedPreset {
		t.Errorf("Code = %q, want %q", err.Code, ErrProtectedPreset)
	}
	if err.Status != 403 {
		t.Errorf("Status = %d, want 403", err.Status)
	}
	if err.Details["name"] != "Default" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "Default")
	}
}

func TestNewNameUnchanged(t *testing.T) {
	err := NewNameUnchanged("creative")

	if err.Code != ErrNameUnchanged {
		t.Errorf("Code = %q, want %q", err.Code, ErrNameUnchanged)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewNameExists(t *testing.T) {
	err := NewNameExists("creative")

	if err.Code != ErrNameExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrNameExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["name"] != "creative" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "creative")
	}
}

func TestNewMalformedImport(t *testing.T) {
	err := NewMalformedImport("data.prompts is required")

	if err.Code != ErrMalformedImport {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedImport)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "database connection failed" {
			t.Errorf("Message = %q, want %q", err.Message, "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "internal error" {
			t.Errorf("Message = %q, want %q", err.Message, "internal error")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrNameExists) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-LoomError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-LoomError")
		}
	})
}
