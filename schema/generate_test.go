package schema

import (
	"testing"

	"github.com/accord-lang/accord/typecheck"
)

func TestRegisterConfigAndViolation(t *testing.T) {
	reg := typecheck.NewSchemaRegistry()
	if err := RegisterConfig(reg, "accord.Config"); err != nil {
		t.Fatal(err)
	}
	if err := RegisterViolation(reg, "accord.Violation"); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateRejectsNil(t *testing.T) {
	if _, err := Generate(nil); err == nil {
		t.Fatal("expected an error reflecting over nil")
	}
}
