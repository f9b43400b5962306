package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.FetchCart(context.Background(), "token-1"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClientOmitsAuthorizationWhenAnonymous(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.FetchCategories(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sawHeader {
		t.Fatal("anonymous request carried an Authorization header")
	}
}

func TestClientMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchCart(context.Background(), "token-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClientExtractsErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"stock exhausted","code":"out_of_stock"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.SyncCart(context.Background(), "token-1", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != "out_of_stock" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if got := apiErr.UserMessage("fallback"); got != "stock exhausted" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestAPIErrorUserMessageFallback(t *testing.T) {
	err := &APIError{Status: 500}
	if got := err.UserMessage("something went wrong"); got != "something went wrong" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestFetchCartDecodesMixedWireTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cart":[
			{"product_id":"12","variation_id":null,"name":"Oil","price":"149.50","quantity":0},
			{"product_id":13,"variation_id":"7","name":"Soap","price":80,"quantity":2}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	items, err := client.FetchCart(context.Background(), "token-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].ProductID != 12 || items[0].Price != 149.5 || items[0].Quantity != 1 || items[0].VariationID != nil {
		t.Fatalf("items[0] = %+v", items[0])
	}
	if items[1].VariationID == nil || *items[1].VariationID != 7 {
		t.Fatalf("items[1] = %+v", items[1])
	}
}

func TestDeleteCartItemKeyPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if err := client.DeleteCartItem(context.Background(), "token-1", 12, nil); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/cart/12:null" {
		t.Fatalf("path = %q", gotPath)
	}

	vid := int64(7)
	if err := client.DeleteCartItem(context.Background(), "token-1", 12, &vid); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/cart/12:7" {
		t.Fatalf("path = %q", gotPath)
	}
}
