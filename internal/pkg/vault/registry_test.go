package vault

import "testing"

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(map[string]Locator{
		"deep-dive-2026": {Backend: "local", Path: "2026/deep-dive.pdf", ContentType: "application/pdf"},
	})

	loc, ok := r.Resolve("deep-dive-2026")
	if !ok {
		t.Fatalf("expected slug to resolve")
	}
	if loc.Path != "2026/deep-dive.pdf" || loc.Backend != "local" {
		t.Fatalf("unexpected locator: %+v", loc)
	}
}

func TestRegistryUnknownSlug(t *testing.T) {
	r := NewRegistry(map[string]Locator{
		"deep-dive-2026": {Backend: "local", Path: "2026/deep-dive.pdf"},
	})

	// Anything not registered does not resolve, including path-shaped slugs.
	for _, slug := range []string{
		"missing",
		"../../etc/passwd",
		"deep-dive-2026/../secret",
		"",
	} {
		if _, ok := r.Resolve(slug); ok {
			t.Fatalf("slug %q resolved unexpectedly", slug)
		}
	}
}

func TestEmptyRegistryServesNothing(t *testing.T) {
	r := NewRegistry(nil)
	if _, ok := r.Resolve("anything"); ok {
		t.Fatalf("empty registry resolved a slug")
	}
}
