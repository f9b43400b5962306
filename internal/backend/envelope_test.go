package backend

import (
	"encoding/json"
	"testing"
)

func decodeList(t *testing.T, payload string) []int {
	t.Helper()
	envelope := ListEnvelope[int]{Key: "cart"}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("%s: %v", payload, err)
	}
	return envelope.Items
}

func TestListEnvelopeShapes(t *testing.T) {
	cases := []struct {
		payload string
		want    []int
	}{
		{`[1,2,3]`, []int{1, 2, 3}},
		{`{"data":[4,5]}`, []int{4, 5}},
		{`{"cart":[6]}`, []int{6}},
		{`{"data":null,"cart":[7]}`, []int{7}},
		{`{"unrelated":[8]}`, nil},
		{`{}`, nil},
		{`null`, nil},
	}
	for _, tc := range cases {
		got := decodeList(t, tc.payload)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.payload, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.payload, got, tc.want)
				break
			}
		}
	}
}

func TestListEnvelopePrefersDataKey(t *testing.T) {
	envelope := ListEnvelope[int]{Key: "cart"}
	if err := json.Unmarshal([]byte(`{"data":[1],"cart":[2]}`), &envelope); err != nil {
		t.Fatal(err)
	}
	if len(envelope.Items) != 1 || envelope.Items[0] != 1 {
		t.Fatalf("got %v, want the data key to win", envelope.Items)
	}
}
