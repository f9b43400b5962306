package localstore

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	if _, ok, err := store.Get("missing"); ok || err != nil {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := store.Set(KeyCart, `[]`); err != nil {
		t.Fatal(err)
	}
	value, ok, err := store.Get(KeyCart)
	if err != nil || !ok || value != `[]` {
		t.Fatalf("got %q ok=%v err=%v", value, ok, err)
	}
	if err := store.Remove(KeyCart); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(KeyCart); ok {
		t.Fatal("key survived Remove")
	}
	if err := store.Remove(KeyCart); err != nil {
		t.Fatalf("removing an absent key: %v", err)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(KeyAuthToken, "token-1"); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	value, ok, err := second.Get(KeyAuthToken)
	if err != nil || !ok || value != "token-1" {
		t.Fatalf("got %q ok=%v err=%v", value, ok, err)
	}
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatal(err)
	}
}

func TestKeyValidation(t *testing.T) {
	store := NewMemoryStore()
	for _, key := range []string{"", "  ", "../escape", "a/b", `a\b`} {
		if err := store.Set(key, "x"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) err = %v, want ErrInvalidKey", key, err)
		}
		if _, _, err := store.Get(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestJSONHelpers(t *testing.T) {
	store := NewMemoryStore()
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if found, err := GetJSON(store, KeyUser, &payload{}); found || err != nil {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}

	if err := SetJSON(store, KeyUser, payload{Name: "Asha", Count: 2}); err != nil {
		t.Fatal(err)
	}
	var out payload
	found, err := GetJSON(store, KeyUser, &out)
	if err != nil || !found || out.Name != "Asha" || out.Count != 2 {
		t.Fatalf("got %+v found=%v err=%v", out, found, err)
	}

	if err := store.Set(KeyUser, "{broken"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetJSON(store, KeyUser, &out); err == nil {
		t.Fatal("corrupt value must surface a decode error")
	}
}
