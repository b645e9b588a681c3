package fieldpath

import "testing"

// TestValidateS4 pins spec.md S4: {phase:{id:string}} accepts .phase.id and
// rejects .phase.wrong.
func TestValidateS4(t *testing.T) {
	shape := Parse("{phase:{id:string}}", nil)

	ok, bad := Validate(shape, []Step{{Name: "phase"}, {Name: "id"}})
	if !ok {
		t.Fatalf("expected .phase.id to validate, got bad step %q", bad)
	}

	ok, bad = Validate(shape, []Step{{Name: "phase"}, {Name: "wrong"}})
	if ok {
		t.Fatalf("expected .phase.wrong to be rejected")
	}
	if bad != "wrong" {
		t.Fatalf("expected bad step %q, got %q", "wrong", bad)
	}
}

func TestValidateArrayIndex(t *testing.T) {
	shape := Parse("string[]", nil)
	ok, _ := Validate(shape, []Step{{IsIndex: true, Index: 0}})
	if !ok {
		t.Fatal("expected index 0 into string[] to validate")
	}
	ok, _ = Validate(shape, []Step{{Name: "x"}})
	if ok {
		t.Fatal("expected member access on an array to be rejected")
	}
}

func TestValidateUnionWithNull(t *testing.T) {
	shape := Parse("{id:string} | null", nil)
	ok, _ := Validate(shape, []Step{{Name: "id"}})
	if !ok {
		t.Fatal("expected {id:string} | null to resolve through its non-null branch")
	}
}

func TestValidateDiscriminatedUnionDegradesToUnknown(t *testing.T) {
	shape := Parse("{kind:\"a\"} | {kind:\"b\"}", nil)
	ok, _ := Validate(shape, []Step{{Name: "anything"}})
	if !ok {
		t.Fatal("expected a multi-branch union to accept any further path (Open Question #3)")
	}
}

func TestValidatePrimitiveRejectsFurtherPath(t *testing.T) {
	shape := Parse("string", nil)
	ok, bad := Validate(shape, []Step{{Name: "length"}})
	if ok {
		t.Fatal("expected a primitive to reject any further path step")
	}
	if bad != "length" {
		t.Fatalf("expected bad step %q, got %q", "length", bad)
	}
}

func TestParseResolvesNamedAlias(t *testing.T) {
	aliases := map[string]string{"Phase": "{id:string}"}
	shape := Parse("Phase", aliases)
	ok, _ := Validate(shape, []Step{{Name: "id"}})
	if !ok {
		t.Fatal("expected a named alias to resolve to its declared shape")
	}
}

func TestParseUnknownShapeAcceptsAnyPath(t *testing.T) {
	shape := Parse("SomeUnrecognizedGeneric<T>", nil)
	ok, _ := Validate(shape, []Step{{Name: "a"}, {Name: "b"}, {IsIndex: true, Index: 3}})
	if !ok {
		t.Fatal("expected an unrecognized shape to accept any further path per §4.5")
	}
}
