package backend

import (
	"encoding/json"
	"testing"
)

func TestNumberCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`1499.5`, 1499.5},
		{`"1499.50"`, 1499.5},
		{`" 250 "`, 250},
		{`null`, 0},
		{`""`, 0},
		{`"not-a-number"`, 0},
		{`true`, 0},
	}
	for _, tc := range cases {
		var n Number
		if err := json.Unmarshal([]byte(tc.in), &n); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if n.Float() != tc.want {
			t.Errorf("%s: got %v, want %v", tc.in, n.Float(), tc.want)
		}
	}
}

func TestQuantityClampsToOne(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`3`, 3},
		{`"2"`, 2},
		{`0`, 1},
		{`-4`, 1},
		{`null`, 1},
		{`"garbage"`, 1},
	}
	for _, tc := range cases {
		var q Quantity
		if err := json.Unmarshal([]byte(tc.in), &q); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if q.Int() != tc.want {
			t.Errorf("%s: got %d, want %d", tc.in, q.Int(), tc.want)
		}
	}
}

func TestIDCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`null`, 0},
		{`"x"`, 0},
	}
	for _, tc := range cases {
		var id ID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if id.Int64() != tc.want {
			t.Errorf("%s: got %d, want %d", tc.in, id.Int64(), tc.want)
		}
	}
}

func TestOptionalID(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		value int64
	}{
		{`7`, true, 7},
		{`"7"`, true, 7},
		{`null`, false, 0},
		{`""`, false, 0},
		{`0`, false, 0},
	}
	for _, tc := range cases {
		var o OptionalID
		if err := json.Unmarshal([]byte(tc.in), &o); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if o.Valid != tc.valid || o.Value != tc.value {
			t.Errorf("%s: got %+v", tc.in, o)
		}
		if tc.valid && (o.Ptr() == nil || *o.Ptr() != tc.value) {
			t.Errorf("%s: Ptr mismatch", tc.in)
		}
		if !tc.valid && o.Ptr() != nil {
			t.Errorf("%s: Ptr should be nil", tc.in)
		}
	}
}
