package state

import "testing"

func TestUIState_ViewportSize(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 1},
		{20, 1},
		{80, 2},
		{180, 5},
	}
	for _, tt := range tests {
		s := NewUIState()
		s.SetWidth(tt.width)
		if got := s.ViewportSize(); got != tt.want {
			t.Errorf("ViewportSize() at width %d = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestUIState_EnsureColumnVisible(t *testing.T) {
	s := NewUIState()
	s.SetWidth(80) // two columns

	s.EnsureColumnVisible(3)
	if got := s.ViewportOffset(); got != 2 {
		t.Errorf("ViewportOffset() after scrolling right = %d, want 2", got)
	}

	s.EnsureColumnVisible(0)
	if got := s.ViewportOffset(); got != 0 {
		t.Errorf("ViewportOffset() after scrolling left = %d, want 0", got)
	}
}

func TestUIState_ClampViewport(t *testing.T) {
	s := NewUIState()
	s.SetWidth(80)
	s.EnsureColumnVisible(4)

	s.ClampViewport(3)
	if got := s.ViewportOffset(); got != 1 {
		t.Errorf("ViewportOffset() after clamp = %d, want 1", got)
	}
}

func TestUIState_EnsureCardVisible(t *testing.T) {
	s := NewUIState()

	s.EnsureCardVisible(1, 5, 3)
	if got := s.CardScrollOffset(1); got != 3 {
		t.Errorf("CardScrollOffset() = %d, want 3", got)
	}

	s.EnsureCardVisible(1, 1, 3)
	if got := s.CardScrollOffset(1); got != 1 {
		t.Errorf("CardScrollOffset() = %d, want 1", got)
	}

	if got := s.CardScrollOffset(2); got != 0 {
		t.Errorf("CardScrollOffset() for untouched column = %d, want 0", got)
	}
}

func TestMode_String(t *testing.T) {
	if NormalMode.String() != "NORMAL" || DragMode.String() != "DRAG" || HelpMode.String() != "HELP" {
		t.Error("unexpected mode names")
	}
}
