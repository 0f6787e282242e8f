package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pvreview/internal/cache"
)

func TestPageImageInvalidPage(t *testing.T) {
	resolver := NewResolver(NewClient("http://localhost:1", time.Second, nil), nil, 0)

	for _, pageNo := range []int{0, -1} {
		_, err := resolver.PageImage(context.Background(), "d1", pageNo)
		if !errors.Is(err, ErrInvalidPage) {
			t.Errorf("PageImage(%d) error = %v, want ErrInvalidPage", pageNo, err)
		}
	}
}

func TestPageImageFetch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/page/d1/3" {
			t.Errorf("request path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	resolver := NewResolver(client, nil, 0)

	img, err := resolver.PageImage(context.Background(), "d1", 3)
	if err != nil {
		t.Fatalf("PageImage: %v", err)
	}
	if string(img) != "png-bytes" {
		t.Errorf("image = %q", img)
	}
}

func TestPageImageNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	resolver := NewResolver(client, nil, 0)

	_, err := resolver.PageImage(context.Background(), "d1", 99)
	if !errors.Is(err, ErrPageNotFound) {
		t.Errorf("error = %v, want ErrPageNotFound", err)
	}
}

func TestPageImageServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	resolver := NewResolver(client, nil, 0)

	_, err := resolver.PageImage(context.Background(), "d1", 2)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrPageNotFound) || errors.Is(err, ErrInvalidPage) {
		t.Errorf("500 must not map to a sentinel, got %v", err)
	}
}

// TestPageImageCached: the second request for the same page must not
// reach the backend.
func TestPageImageCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	resolver := NewResolver(client, cache.NewMemory(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 3; i++ {
		img, err := resolver.PageImage(context.Background(), "d1", 1)
		if err != nil {
			t.Fatalf("PageImage #%d: %v", i+1, err)
		}
		if string(img) != "png-bytes" {
			t.Errorf("image #%d = %q", i+1, img)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("backend hits = %d, want 1", got)
	}

	// A different page is a different key.
	if _, err := resolver.PageImage(context.Background(), "d1", 2); err != nil {
		t.Fatalf("PageImage: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("backend hits = %d, want 2", got)
	}
}
