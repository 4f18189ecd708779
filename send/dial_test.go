package main

import (
	"strconv"
	"strings"
	"testing"
)

func TestResolveRemoteAddrPlainAddrUnchanged(t *testing.T) {
	got := resolveRemoteAddr("example.com:29900")
	if got != "example.com:29900" {
		t.Fatalf("got %q, want unchanged plain address", got)
	}
}

func TestResolveRemoteAddrPortRangePicksWithinBounds(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := resolveRemoteAddr("example.com:20000-20009")
		if !strings.HasPrefix(got, "example.com:") {
			t.Fatalf("got %q, want example.com: prefix", got)
		}
		port, err := strconv.Atoi(strings.TrimPrefix(got, "example.com:"))
		if err != nil {
			t.Fatalf("resolveRemoteAddr returned unparseable port: %v", err)
		}
		if port < 20000 || port > 20009 {
			t.Fatalf("port %d out of range [20000,20009]", port)
		}
	}
}
