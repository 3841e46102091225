package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tu "github.com/desertthunder/plimport/internal/testing"
)

func TestHTTPFetcher(t *testing.T) {
	t.Run("returns body and forwards headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
				t.Errorf("expected User-Agent test-agent, got %q", ua)
			}
			w.Write([]byte("<html><title>ok</title></html>"))
		}))
		defer server.Close()

		body, err := NewHTTPFetcher(0).Get(context.Background(), server.URL, map[string]string{"User-Agent": "test-agent"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if body != "<html><title>ok</title></html>" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("non-2xx status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewHTTPFetcher(0).Get(context.Background(), server.URL, nil)
		if err == nil || !strings.Contains(err.Error(), "404") {
			t.Fatalf("expected status error, got %v", err)
		}
	})

	t.Run("truncates large bodies", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		body, err := NewHTTPFetcher(0, WithMaxBodyBytes(10)).Get(context.Background(), server.URL, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(body))
		}
	})

	t.Run("stops after redirect cap", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, server.URL+"/again", http.StatusFound)
		}))
		defer server.Close()

		_, err := NewHTTPFetcher(0).Get(context.Background(), server.URL, nil)
		if !errors.Is(err, ErrTooManyRedirects) {
			t.Fatalf("expected ErrTooManyRedirects, got %v", err)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		_, err := NewHTTPFetcher(0, WithHTTPClient(client)).Get(context.Background(), "http://example.test", nil)
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Fatalf("expected transport error, got %v", err)
		}
	})

	t.Run("body read error", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		_, err := NewHTTPFetcher(0, WithHTTPClient(client)).Get(context.Background(), "http://example.test", nil)
		if err == nil || !strings.Contains(err.Error(), "failed to read response body") {
			t.Fatalf("expected read error, got %v", err)
		}
	})
}
