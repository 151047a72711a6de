package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Hello, World!"); got != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(input); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "onclick") {
		t.Errorf("expected onclick attribute removed, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestSanitize_AllowsSafeLinks(t *testing.T) {
	input := `<a href="https://example.com">Link</a>`
	got := htmlsanitize.Sanitize(input)
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("expected safe link preserved, got %q", got)
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	input := `<p>Content</p><iframe src="https://evil.com"></iframe>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "iframe") {
		t.Errorf("expected iframe removed, got %q", got)
	}
	if !strings.Contains(got, "Content") {
		t.Errorf("expected safe content preserved, got %q", got)
	}
}

func TestSanitize_AllowsLists(t *testing.T) {
	input := "<ul><li>Item 1</li><li>Item 2</li></ul>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected list preserved, got %q", got)
	}
}

func TestPlain_Empty(t *testing.T) {
	if got := htmlsanitize.Plain(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlain_NoTags(t *testing.T) {
	if got := htmlsanitize.Plain("Summer Picnic"); got != "Summer Picnic" {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

func TestPlain_StripsAllMarkup(t *testing.T) {
	input := "<p><strong>Summer</strong> Picnic</p>"
	if got := htmlsanitize.Plain(input); got != "Summer Picnic" {
		t.Errorf("expected markup stripped, got %q", got)
	}
}

func TestPlain_StripsScript(t *testing.T) {
	input := "Picnic<script>alert('xss')</script>"
	if got := htmlsanitize.Plain(input); got != "Picnic" {
		t.Errorf("expected script stripped, got %q", got)
	}
}

func TestPlain_TrimsWhitespace(t *testing.T) {
	if got := htmlsanitize.Plain("  Summer Picnic  "); got != "Summer Picnic" {
		t.Errorf("expected whitespace trimmed, got %q", got)
	}
}
