package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("third request should be blocked")
	}
	if !l.Allow("other") {
		t.Fatal("other keys have their own window")
	}

	now = now.Add(2 * time.Minute)
	if !l.Allow("k") {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected Allow after Reset")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:5", "10.0.0.9"},
		{"remote with port", nil, "1.2.3.4:5678", "1.2.3.4"},
		{"remote without port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignInLimiter_EmailLimit(t *testing.T) {
	s := NewSignInLimiter(100, 2)
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := s.Check(r, "Ana@Example.com"); !ok {
			t.Fatalf("attempt %d unexpectedly blocked", i+1)
		}
	}
	ok, msg := s.Check(r, "ana@example.com")
	if ok || msg == "" {
		t.Fatalf("expected third attempt to be blocked with a message, got ok=%v msg=%q", ok, msg)
	}

	s.ResetEmail("ANA@example.com")
	if ok, _ := s.Check(r, "ana@example.com"); !ok {
		t.Error("expected attempt after ResetEmail to be allowed")
	}
}
