package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orizon-lang/orizon-autodiff/internal/autodiff"
)

func writeSig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sig.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadSignature(t *testing.T) {
	t.Run("FreeFunctionWithTuple", func(t *testing.T) {
		path := writeSig(t, "params:\n  - A\n  - [B, C]\n  - D\nresult: R\n")

		fn, err := loadSignature(path, false)
		if err != nil {
			t.Fatal(err)
		}

		if fn.HasSelfParam {
			t.Error("signature should not have a receiver")
		}

		if got := fn.String(); got != "(A, (B, C), D) -> R" {
			t.Errorf("signature = %q", got)
		}
	})

	t.Run("CurriedMethod", func(t *testing.T) {
		path := writeSig(t, "self: true\nparams: [A, B]\nresult: R\n")

		fn, err := loadSignature(path, false)
		if err != nil {
			t.Fatal(err)
		}

		if got := fn.String(); got != "(Self) -> (A, B) -> R" {
			t.Errorf("signature = %q", got)
		}
	})

	t.Run("UncurriedMethod", func(t *testing.T) {
		path := writeSig(t, "self: true\nparams: [A, B]\nresult: R\n")

		fn, err := loadSignature(path, true)
		if err != nil {
			t.Fatal(err)
		}

		if got := fn.String(); got != "(A, B, Self) -> R" {
			t.Errorf("signature = %q", got)
		}
	})

	t.Run("NoParams", func(t *testing.T) {
		path := writeSig(t, "result: R\n")

		if _, err := loadSignature(path, false); err == nil {
			t.Error("empty parameter list should be an error")
		}
	})

	t.Run("DefaultResult", func(t *testing.T) {
		path := writeSig(t, "params: [A]\n")

		fn, err := loadSignature(path, false)
		if err != nil {
			t.Fatal(err)
		}

		if got := fn.Result().String(); got != "R" {
			t.Errorf("default result = %q, want R", got)
		}
	})
}

func TestBuildSelection(t *testing.T) {
	ctx := autodiff.NewContext()

	path := writeSig(t, "self: true\nparams: [A, B, C]\nresult: R\n")

	fn, err := loadSignature(path, false)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("All", func(t *testing.T) {
		set, err := buildSelection(ctx, fn, "", true, false)
		if err != nil {
			t.Fatal(err)
		}

		if got := set.String(); got != "MSSSS" {
			t.Errorf("selection = %q, want MSSSS", got)
		}
	})

	t.Run("Explicit", func(t *testing.T) {
		set, err := buildSelection(ctx, fn, "MUUSS", false, false)
		if err != nil {
			t.Fatal(err)
		}

		if got := set.Lower(fn, false).String(); got != "0011" {
			t.Errorf("lowered = %q, want 0011", got)
		}
	})

	t.Run("RejectsMalformed", func(t *testing.T) {
		if _, err := buildSelection(ctx, fn, "MXXSS", false, false); err == nil {
			t.Error("malformed selection should be an error")
		}
	})

	t.Run("RejectsWrongTag", func(t *testing.T) {
		if _, err := buildSelection(ctx, fn, "FUUS", false, false); err == nil {
			t.Error("free-function selection over a method signature should be an error")
		}
	})

	t.Run("RejectsWrongWidth", func(t *testing.T) {
		if _, err := buildSelection(ctx, fn, "MUS", false, false); err == nil {
			t.Error("selection width mismatch should be an error")
		}
	})

	t.Run("RejectsBothOrNeither", func(t *testing.T) {
		if _, err := buildSelection(ctx, fn, "MUUSS", true, false); err == nil {
			t.Error("-select together with -all should be an error")
		}

		if _, err := buildSelection(ctx, fn, "", false, false); err == nil {
			t.Error("neither -select nor -all should be an error")
		}
	})
}
