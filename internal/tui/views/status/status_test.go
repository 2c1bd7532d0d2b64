package status

import (
	"strings"
	"testing"
)

func TestViewShowsRoleAndRecord(t *testing.T) {
	m := New("host", "10.0.0.2:51234", "tcp")
	m.Width = 100
	m.Wrong, m.MaxWrong = 2, 6
	m.SetRecord(4, 1, 3)

	v := m.View()
	for _, want := range []string{"Server Side", "10.0.0.2:51234", "(tcp)", "2/6 wrong", "4W 1L", "streak 3"} {
		if !strings.Contains(v, want) {
			t.Errorf("status bar missing %q:\n%s", want, v)
		}
	}
}

func TestCaption(t *testing.T) {
	if got := Caption("join"); got != "Client Side" {
		t.Errorf("Caption(join) = %q", got)
	}
	if got := Caption("other"); got != "other" {
		t.Errorf("Caption(other) = %q", got)
	}
}
