package spectrum

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestColumnEdges(t *testing.T) {
	tests := []struct {
		n, width int
		want     []int
	}{
		{128, 4, []int{0, 2, 10, 37, 128}},
		{4, 4, []int{0, 1, 2, 3, 4}},
		{3, 6, []int{0, 1, 2, 3, 3, 3, 3}},
	}
	for _, tt := range tests {
		got := columnEdges(tt.n, tt.width)
		if len(got) != len(tt.want) {
			t.Fatalf("columnEdges(%d, %d) = %v, want %v", tt.n, tt.width, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("columnEdges(%d, %d) = %v, want %v", tt.n, tt.width, got, tt.want)
				break
			}
		}
	}
}

func TestColumns(t *testing.T) {
	bins := make([]uint8, 128)
	bins[0] = 255
	bins[5] = 51
	bins[100] = 102

	got := Columns(bins, 4)
	want := []float64{1, 0.2, 0, 0.4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := Columns(nil, 3); len(got) != 3 || got[0] != 0 {
		t.Errorf("Columns(nil, 3) = %v", got)
	}

	// more columns than bins repeats the last bin
	got = Columns([]uint8{0, 0, 255}, 6)
	if got[5] != 1 || got[4] != 1 {
		t.Errorf("Columns(3 bins, 6) = %v", got)
	}
}

func TestRender(t *testing.T) {
	if Render([]uint8{255}, 0, 4) != "" || Render([]uint8{255}, 4, 0) != "" {
		t.Error("empty area should render nothing")
	}

	// full, half and silent columns
	out := Render([]uint8{255, 128, 0}, 3, 2)
	rows := strings.Split(out, "\n")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, r := range rows {
		if w := lipgloss.Width(r); w != 3 {
			t.Errorf("row width = %d, want 3 (%q)", w, r)
		}
	}
	top, bottom := []rune(stripANSI(rows[0])), []rune(stripANSI(rows[1]))
	if top[0] != '█' || bottom[0] != '█' {
		t.Errorf("full column = %q/%q", string(top[0]), string(bottom[0]))
	}
	if top[1] != ' ' || bottom[1] != '█' {
		t.Errorf("half column = %q/%q", string(top[1]), string(bottom[1]))
	}
	if top[2] != ' ' || bottom[2] != ' ' {
		t.Errorf("silent column = %q/%q", string(top[2]), string(bottom[2]))
	}
}

func TestModel_View(t *testing.T) {
	m := New()
	if m.View() != "" {
		t.Error("zero-size view should be empty")
	}

	m.SetSize(20, 6)
	out := m.View()
	if !strings.Contains(out, "no signal") {
		t.Errorf("empty frame view = \n%s", out)
	}
	if h := lipgloss.Height(out); h != 6 {
		t.Errorf("height = %d, want 6", h)
	}

	data := []uint8{10, 200, 30}
	m.SetData(data)
	data[1] = 0
	if m.bins[1] != 200 {
		t.Error("SetData must copy the frame")
	}
	out = m.View()
	if strings.Contains(out, "no signal") {
		t.Error("frame ignored")
	}
	if w := lipgloss.Width(out); w != 20 {
		t.Errorf("width = %d, want 20", w)
	}

	m.Clear()
	if !strings.Contains(m.View(), "no signal") {
		t.Error("Clear did not drop the frame")
	}
}

// stripANSI removes SGR sequences so glyphs can be compared.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
