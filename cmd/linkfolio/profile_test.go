package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/joestump/linkfolio/internal/apiclient"
	"github.com/joestump/linkfolio/internal/profile"
)

func TestPrintProfile(t *testing.T) {
	clicked := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	v := profile.View{Profile: &apiclient.Profile{
		Username: "alice",
		FullName: "Alice Liddell",
		Bio:      "curious",
		Links: []apiclient.Link{
			{ID: 1, Title: "Blog", URL: "https://alice.example.com", Analytics: apiclient.Analytics{ClickCount: 3, UpdatedAt: &clicked}},
			{ID: 2, Title: "Shop", URL: "https://shop.example.com"},
		},
	}}

	var buf bytes.Buffer
	printProfile(&buf, v)
	out := buf.String()

	for _, want := range []string{"Alice Liddell (@alice)", "curious", "https://alice.example.com", "Shop"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintProfile_Empty(t *testing.T) {
	var buf bytes.Buffer
	printProfile(&buf, profile.View{})
	if !strings.Contains(buf.String(), "no profile loaded") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseLinkID(t *testing.T) {
	if id, err := parseLinkID("42"); err != nil || id != 42 {
		t.Errorf("parseLinkID(42) = (%d, %v)", id, err)
	}
	for _, s := range []string{"", "0", "-1", "abc"} {
		if _, err := parseLinkID(s); err == nil {
			t.Errorf("parseLinkID(%q) succeeded, want error", s)
		}
	}
}
