package eval_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/andrewdelmar/funcad/pkg/docset"
	"github.com/andrewdelmar/funcad/pkg/eval"
	"github.com/andrewdelmar/funcad/pkg/fqpath"
	"github.com/andrewdelmar/funcad/pkg/solids"
)

// loadDocs parses an in-memory program: files is keyed by FQPath.Key()
// (e.g. "main", "lib/shapes"), not by on-disk file name.
func loadDocs(t *testing.T, files map[string]string, entryKey string) (*docset.DocSet, fqpath.FQPath) {
	t.Helper()
	entry := fqpath.New(strings.Split(entryKey, "/")...)

	docs, err := docset.ParseAll(entry, func(path fqpath.FQPath) (io.Reader, error) {
		src, ok := files[path.Key()]
		if !ok {
			return nil, fmt.Errorf("no source registered for %q", path.Key())
		}
		return strings.NewReader(src), nil
	})
	if err != nil {
		t.Fatalf("ParseAll: unexpected error %s", err)
	}
	return docs, entry
}

func evalOne(t *testing.T, src, funcName string) (eval.Value, *eval.Error) {
	t.Helper()
	docs, entry := loadDocs(t, map[string]string{"main": src}, "main")
	cache := eval.New(docs, solids.DefaultTolerance)
	return cache.EvalFunctionByName(entry, funcName)
}

func TestEvalArithmeticAndPrecedence(t *testing.T) {
	val, err := evalOne(t, `f = 1 + 2 * 3 - 4 / 2`, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, _ := val.AsNumber()
	if got != 5 {
		t.Errorf("f = %v, want 5", got)
	}
}

func TestEvalUnaryNegation(t *testing.T) {
	val, err := evalOne(t, `f = -(2 + 3)`, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, _ := val.AsNumber()
	if got != -5 {
		t.Errorf("f = %v, want -5", got)
	}
}

func TestEvalFuncCallWithDefaults(t *testing.T) {
	val, err := evalOne(t, `
		f(x, y = 10) = x + y
		g = f(5)
	`, "g")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, _ := val.AsNumber()
	if got != 15 {
		t.Errorf("g = %v, want 15", got)
	}
}

func TestEvalFuncCallWithNamedArgs(t *testing.T) {
	val, err := evalOne(t, `
		f(x, y) = x - y
		g = f(y = 1, x = 10)
	`, "g")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, _ := val.AsNumber()
	if got != 9 {
		t.Errorf("g = %v, want 9", got)
	}
}

func TestEvalBuiltInTrig(t *testing.T) {
	val, err := evalOne(t, `f = Sin(90) + Cos(0)`, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, _ := val.AsNumber()
	if got < 1.999 || got > 2.001 {
		t.Errorf("f = %v, want ~2", got)
	}
}

func TestEvalTanAtNinetyDegreesIsNotFinite(t *testing.T) {
	_, err := evalOne(t, `f = Tan(90)`, "f")
	if err == nil {
		t.Fatal("expected an error for Tan(90)")
	}
	if err.Kind != eval.NumExprNotFinite {
		t.Errorf("kind = %s, want NumExprNotFinite", err.Kind)
	}
}

func TestEvalDivisionByZeroIsNotFinite(t *testing.T) {
	_, err := evalOne(t, `f = 1 / 0`, "f")
	if err == nil {
		t.Fatal("expected an error for 1 / 0")
	}
	if err.Kind != eval.NumExprNotFinite {
		t.Errorf("kind = %s, want NumExprNotFinite", err.Kind)
	}
}

func TestEvalSolidAlgebra(t *testing.T) {
	val, err := evalOne(t, `f = Cube(2) - Cube(1)`, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if _, ok := val.AsSolid(); !ok {
		t.Fatalf("f = %s, want a solid", val)
	}
}

func TestEvalIdenticalSolidSelfDifferenceIsEmpty(t *testing.T) {
	// c is memoized (I6): both calls to c() within f's evaluation resolve to
	// the very same SolidId, so subtracting it from itself is exactly empty.
	val, err := evalOne(t, `
		c = Cube(3)
		f = c - c
	`, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if val.String() != solids.Empty.String() {
		t.Errorf("c - c = %s, want %s", val, solids.Empty)
	}
}

func TestEvalBoundParameterRejectsCallArgs(t *testing.T) {
	_, err := evalOne(t, `
		f(x) = x(1)
		g = f(5)
	`, "g")
	if err == nil {
		t.Fatal("expected an error calling a bound parameter with arguments")
	}
	if err.Kind != eval.TooManyArgs {
		t.Errorf("kind = %s, want TooManyArgs", err.Kind)
	}
}

func TestEvalInfiniteRecursionIsDetected(t *testing.T) {
	_, err := evalOne(t, `f = f`, "f")
	if err == nil {
		t.Fatal("expected an error for self-recursive f")
	}
	if err.Kind != eval.InfiniteRecursion {
		t.Errorf("kind = %s, want InfiniteRecursion", err.Kind)
	}
}

func TestEvalMutualRecursionIsDetected(t *testing.T) {
	_, err := evalOne(t, `
		f = g
		g = f
	`, "f")
	if err == nil {
		t.Fatal("expected an error for mutually recursive f/g")
	}
	if err.Kind != eval.InfiniteRecursion {
		t.Errorf("kind = %s, want InfiniteRecursion", err.Kind)
	}
}

func TestEvalMissingRequiredArgAtEntryPoint(t *testing.T) {
	_, err := evalOne(t, `f(x) = x`, "f")
	if err == nil {
		t.Fatal("expected an error for a required parameter with no default")
	}
	if err.Kind != eval.NoSuppliedOrDefaultArg {
		t.Errorf("kind = %s, want NoSuppliedOrDefaultArg", err.Kind)
	}
}

func TestEvalArgWrongType(t *testing.T) {
	_, err := evalOne(t, `f = Sin(Cube())`, "f")
	if err == nil {
		t.Fatal("expected an error passing a solid where a number is required")
	}
	if err.Kind != eval.ArgWrongType {
		t.Errorf("kind = %s, want ArgWrongType", err.Kind)
	}
}

func TestEvalBinaryOpWrongTypes(t *testing.T) {
	_, err := evalOne(t, `f = 1 + Cube()`, "f")
	if err == nil {
		t.Fatal("expected an error adding a number and a solid")
	}
	if err.Kind != eval.BinaryOpWrongTypes {
		t.Errorf("kind = %s, want BinaryOpWrongTypes", err.Kind)
	}
}

func TestEvalInvalidNamedArg(t *testing.T) {
	_, err := evalOne(t, `
		f(x) = x
		g = f(z = 1)
	`, "g")
	if err == nil {
		t.Fatal("expected an error for an unknown named argument")
	}
	if err.Kind != eval.InvalidNamedArg {
		t.Errorf("kind = %s, want InvalidNamedArg", err.Kind)
	}
}

func TestEvalTooManyPositionalArgs(t *testing.T) {
	_, err := evalOne(t, `
		f(x) = x
		g = f(1, 2)
	`, "g")
	if err == nil {
		t.Fatal("expected an error for too many positional arguments")
	}
	if err.Kind != eval.TooManyArgs {
		t.Errorf("kind = %s, want TooManyArgs", err.Kind)
	}
}

func TestEvalFuncNotFound(t *testing.T) {
	_, err := evalOne(t, `f = missing()`, "f")
	if err == nil {
		t.Fatal("expected an error calling an undefined function")
	}
	if err.Kind != eval.FuncNotFound {
		t.Errorf("kind = %s, want FuncNotFound", err.Kind)
	}
}

func TestEvalImportNotFound(t *testing.T) {
	_, err := evalOne(t, `f = Foo.bar()`, "f")
	if err == nil {
		t.Fatal("expected an error calling through an unimported alias")
	}
	if err.Kind != eval.ImportNotFound {
		t.Errorf("kind = %s, want ImportNotFound", err.Kind)
	}
}

func TestEvalQualifiedCallAcrossDocuments(t *testing.T) {
	docs, entry := loadDocs(t, map[string]string{
		"main": `
			import lib/shapes

			f = shapes.box(2)
		`,
		"lib/shapes": `
			box(size = 1) = Cube(size)
		`,
	}, "main")

	cache := eval.New(docs, solids.DefaultTolerance)
	val, err := cache.EvalFunctionByName(entry, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if _, ok := val.AsSolid(); !ok {
		t.Fatalf("f = %s, want a solid", val)
	}
}

func TestEvalArgDefaultScopedToOwningDocument(t *testing.T) {
	// box's default for "size" references "helper", which only exists in
	// the imported document, not in main. If the default were (incorrectly)
	// evaluated against main's own path, this would fail with FuncNotFound
	// instead of resolving to 3.
	docs, entry := loadDocs(t, map[string]string{
		"main": `
			import lib/shapes

			f = shapes.box()
		`,
		"lib/shapes": `
			helper = 3
			box(size = helper) = size
		`,
	}, "main")

	cache := eval.New(docs, solids.DefaultTolerance)
	val, err := cache.EvalFunctionByName(entry, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, ok := val.AsNumber()
	if !ok || got != 3 {
		t.Errorf("f = %s, want 3", val)
	}
}

func TestEvalLocalArgDefaultReferencesLocalFunc(t *testing.T) {
	val, err := evalOne(t, `
		helper = 7
		f(x = helper) = x
	`, "f")
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	got, _ := val.AsNumber()
	if got != 7 {
		t.Errorf("f = %v, want 7", got)
	}
}

func TestValueTypeNames(t *testing.T) {
	if eval.Number(1).TypeName() != eval.NumberTypeName {
		t.Errorf("Number TypeName = %q, want %q", eval.Number(1).TypeName(), eval.NumberTypeName)
	}
	if eval.Solid(solids.Empty).TypeName() != eval.SolidTypeName {
		t.Errorf("Solid TypeName = %q, want %q", eval.Solid(solids.Empty).TypeName(), eval.SolidTypeName)
	}
	if eval.SolidTypeName != "solid" {
		t.Errorf("SolidTypeName = %q, want \"solid\"", eval.SolidTypeName)
	}
}
