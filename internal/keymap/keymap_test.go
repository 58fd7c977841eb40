package keymap

import (
	"slices"
	"testing"
)

func TestAll_NoDuplicateKeys(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		if len(b.Keys) == 0 {
			t.Errorf("%s has no keys", b.Action)
		}
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %s and %s", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestAll_KnownContexts(t *testing.T) {
	for _, b := range All {
		if !slices.Contains(Contexts, b.Context) {
			t.Errorf("%s has unknown context %q", b.Action, b.Context)
		}
		if b.Description == "" {
			t.Errorf("%s has no description", b.Action)
		}
	}
}

func TestByContext(t *testing.T) {
	total := 0
	for _, c := range Contexts {
		total += len(ByContext(c))
	}
	if total != len(All) {
		t.Errorf("contexts cover %d bindings, want %d", total, len(All))
	}
	if got := ByContext("missing"); got != nil {
		t.Errorf("ByContext(missing) = %v, want nil", got)
	}
}
