package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  NotFound("product", "Sword"),
			want: "[NOT_FOUND] product not found: Sword",
		},
		{
			name: "with cause",
			err:  Parsing("bom.csv", fmt.Errorf("bad quote")),
			want: "[PARSING_ERROR] bom.csv: bad quote",
		},
		{
			name: "missing columns",
			err:  MissingColumns("materials", []string{"单价", "来源"}),
			want: "[INPUT_ERROR] materials: missing required columns: 单价, 来源",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	base := EmptyTable("recipes")
	wrapped := fmt.Errorf("loading dataset: %w", base)

	if !IsType(wrapped, TypeInput) {
		t.Error("expected wrapped error to be recognised as INPUT_ERROR")
	}
	if IsType(wrapped, TypeNotFound) {
		t.Error("wrapped INPUT_ERROR must not match NOT_FOUND")
	}
	if !stderrors.Is(wrapped, New(TypeInput, "")) {
		t.Error("errors.Is should match on type")
	}
	if IsType(fmt.Errorf("plain"), TypeInput) {
		t.Error("plain errors carry no type")
	}
}

func TestWithContext(t *testing.T) {
	err := NotFound("material", "铁矿石")
	if err.Context["kind"] != "material" {
		t.Errorf("expected kind context, got %v", err.Context)
	}
	if err.Context["identifier"] != "铁矿石" {
		t.Errorf("expected identifier context, got %v", err.Context)
	}
}
