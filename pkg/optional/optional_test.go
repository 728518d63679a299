package optional

import (
	"encoding/json"
	"testing"
	"time"
)

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value[string]
	if v.IsSome() {
		t.Fatal("zero Value should be absent")
	}
	if _, ok := v.Get(); ok {
		t.Fatal("Get on zero Value should report absent")
	}
	if v.Ptr() != nil {
		t.Fatal("Ptr on absent Value should be nil")
	}
}

func TestSomeEmptyStringIsPresent(t *testing.T) {
	v := Some("")
	if !v.IsSome() {
		t.Fatal("Some(\"\") must be present, not conflated with absent")
	}
}

func TestFromPtr(t *testing.T) {
	if FromPtr[int](nil).IsSome() {
		t.Fatal("FromPtr(nil) should be absent")
	}
	n := 7
	v := FromPtr(&n)
	got, ok := v.Get()
	if !ok || got != 7 {
		t.Fatalf("FromPtr(&7) = %v, %v", got, ok)
	}
	// the Value must not alias the source pointer
	n = 8
	if v.OrZero() != 7 {
		t.Fatalf("Value aliased the source pointer: %d", v.OrZero())
	}
}

func TestJSONAbsentIsNull(t *testing.T) {
	type rec struct {
		Assignee  Value[string]    `json:"assignee"`
		UpdatedAt Value[time.Time] `json:"updated_at"`
	}
	b, err := json.Marshal(rec{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"assignee":null,"updated_at":null}` {
		t.Fatalf("unexpected JSON: %s", b)
	}

	var r rec
	if err := json.Unmarshal([]byte(`{"assignee":"emp-1","updated_at":null}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, ok := r.Assignee.Get(); !ok || got != "emp-1" {
		t.Fatalf("assignee: got %q, %v", got, ok)
	}
	if r.UpdatedAt.IsSome() {
		t.Fatal("updated_at should be absent")
	}
}
