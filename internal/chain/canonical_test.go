package chain

import "testing"

func TestCanonicalJSON_SortsKeysRegardlessOfInputOrder(t *testing.T) {
	a := []byte(`{"b":1,"a":2,"c":{"z":1,"y":2}}`)
	b := []byte(`{"a":2,"c":{"y":2,"z":1},"b":1}`)

	ca, err := canonicalJSON(a)
	if err != nil {
		t.Fatalf("canonicalJSON(a): %v", err)
	}
	cb, err := canonicalJSON(b)
	if err != nil {
		t.Fatalf("canonicalJSON(b): %v", err)
	}
	if string(ca) != string(cb) {
		t.Fatalf("expected identical canonical output, got %q vs %q", ca, cb)
	}
	want := `{"a":2,"b":1,"c":{"y":2,"z":1}}`
	if string(ca) != want {
		t.Fatalf("got %q, want %q", ca, want)
	}
}

func TestCanonicalJSON_PreservesNumberTokens(t *testing.T) {
	raw := []byte(`{"n":10,"f":1.50,"neg":-3}`)
	got, err := canonicalJSON(raw)
	if err != nil {
		t.Fatalf("canonicalJSON: %v", err)
	}
	want := `{"f":1.50,"n":10,"neg":-3}`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalJSON_CompactSeparators(t *testing.T) {
	raw := []byte(`{"a": [1, 2, 3], "b": "x"}`)
	got, err := canonicalJSON(raw)
	if err != nil {
		t.Fatalf("canonicalJSON: %v", err)
	}
	want := `{"a":[1,2,3],"b":"x"}`
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
