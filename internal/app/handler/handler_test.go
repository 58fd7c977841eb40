package handler

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type marker string

func TestResults(t *testing.T) {
	if NotHandled.Handled || NotHandled.Cmd != nil {
		t.Error("NotHandled should be empty")
	}
	if !HandledNoCmd.Handled || HandledNoCmd.Cmd != nil {
		t.Error("HandledNoCmd should be handled without command")
	}
	r := Handled(func() tea.Msg { return marker("x") })
	if !r.Handled || r.Cmd == nil {
		t.Fatal("Handled(cmd) should carry the command")
	}
	if got := r.Cmd(); got != marker("x") {
		t.Errorf("Cmd() = %v, want x", got)
	}
}

func TestChain(t *testing.T) {
	var calls []string
	h := func(name string, res Result) Handler {
		return func() Result {
			calls = append(calls, name)
			return res
		}
	}

	tests := []struct {
		name      string
		handlers  []Handler
		handled   bool
		wantCalls []string
		wantCmd   bool
	}{
		{"empty", nil, false, nil, false},
		{"none handle", []Handler{h("a", NotHandled), h("b", NotHandled)}, false, []string{"a", "b"}, false},
		{"first wins", []Handler{h("a", HandledNoCmd), h("b", NotHandled)}, true, []string{"a"}, false},
		{
			"second with cmd",
			[]Handler{h("a", NotHandled), h("b", Handled(func() tea.Msg { return nil })), h("c", HandledNoCmd)},
			true, []string{"a", "b"}, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			handled, cmd := Chain(tt.handlers...)
			if handled != tt.handled {
				t.Errorf("handled = %v, want %v", handled, tt.handled)
			}
			if (cmd != nil) != tt.wantCmd {
				t.Errorf("cmd != nil is %v, want %v", cmd != nil, tt.wantCmd)
			}
			if len(calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %v, want %v", calls, tt.wantCalls)
			}
			for i := range calls {
				if calls[i] != tt.wantCalls[i] {
					t.Errorf("calls = %v, want %v", calls, tt.wantCalls)
				}
			}
		})
	}
}
