package panels

import "testing"

func TestNew_InitialState(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  PanelState
	}{
		{"narrow starts closed", 80, PanelState{Class: Narrow}},
		{"wide starts open", 140, PanelState{Class: Wide, LeftOpen: true, RightOpen: true}},
		{"breakpoint itself is wide", 100, PanelState{Class: Wide, LeftOpen: true, RightOpen: true}},
		{"one below breakpoint is narrow", 99, PanelState{Class: Narrow}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(NewTerminalViewport(tc.width), 100)
			defer c.Close()
			if got := c.State(); got != tc.want {
				t.Errorf("State() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNew_DefaultBreakpoint(t *testing.T) {
	c := New(NewTerminalViewport(DefaultBreakpoint-1), 0)
	if c.State().Class != Narrow {
		t.Error("zero breakpoint should fall back to the default")
	}
}

func TestResize_ClassChangeForcesPanels(t *testing.T) {
	vp := NewTerminalViewport(140)
	c := New(vp, 100)

	vp.SetWidth(80)
	if got := c.State(); got.LeftOpen || got.RightOpen || got.Class != Narrow {
		t.Errorf("wide to narrow should close both, got %+v", got)
	}

	c.ToggleLeft()
	vp.SetWidth(150)
	if got := c.State(); !got.LeftOpen || !got.RightOpen {
		t.Errorf("narrow to wide should open both, got %+v", got)
	}
}

func TestResize_SameClassIsNoOp(t *testing.T) {
	vp := NewTerminalViewport(80)
	c := New(vp, 100)
	c.ToggleRight()

	changes := 0
	c.OnChange(func(PanelState) { changes++ })

	vp.SetWidth(70)
	vp.SetWidth(95)
	if changes != 0 {
		t.Errorf("resize within a class notified %d times", changes)
	}
	if !c.State().RightOpen {
		t.Error("resize within a class changed panel state")
	}
}

func TestToggle_NarrowMutualExclusion(t *testing.T) {
	c := New(NewTerminalViewport(80), 100)

	c.ToggleLeft()
	if s := c.State(); !s.LeftOpen || s.RightOpen {
		t.Fatalf("after ToggleLeft: %+v", s)
	}
	c.ToggleRight()
	if s := c.State(); s.LeftOpen || !s.RightOpen {
		t.Fatalf("opening right must close left: %+v", s)
	}
	c.ToggleRight()
	if s := c.State(); s.LeftOpen || s.RightOpen {
		t.Fatalf("toggle should close: %+v", s)
	}
}

func TestToggle_NarrowNeverBothOpen(t *testing.T) {
	type step struct {
		name  string
		apply func(*Controller)
		// toggled is the panel a toggle flips; empty for the close events.
		toggled string
	}
	steps := []step{
		{"left", (*Controller).ToggleLeft, "left"},
		{"right", (*Controller).ToggleRight, "right"},
		{"chosen", (*Controller).ConversationChosen, ""},
		{"feedback", (*Controller).FeedbackSubmitted, ""},
		{"upload", (*Controller).DocumentUploaded, ""},
	}

	// Every sequence of up to maxLen steps, encoded in base len(steps).
	const maxLen = 5
	for length := 1; length <= maxLen; length++ {
		total := 1
		for i := 0; i < length; i++ {
			total *= len(steps)
		}
		for code := 0; code < total; code++ {
			c := New(NewTerminalViewport(80), 100)
			trace := ""
			n := code
			for i := 0; i < length; i++ {
				s := steps[n%len(steps)]
				n /= len(steps)
				trace += s.name + " "

				before := c.State()
				s.apply(c)
				after := c.State()

				if after.LeftOpen && after.RightOpen {
					t.Fatalf("both panels open after %s: %+v", trace, after)
				}
				switch s.toggled {
				case "left":
					if after.LeftOpen == before.LeftOpen {
						t.Fatalf("left toggle had no effect after %s", trace)
					}
				case "right":
					if after.RightOpen == before.RightOpen {
						t.Fatalf("right toggle had no effect after %s", trace)
					}
				}
			}
			c.Close()
		}
	}
}

func TestToggle_IgnoredWhenWide(t *testing.T) {
	c := New(NewTerminalViewport(140), 100)
	c.ToggleLeft()
	c.ToggleRight()
	if s := c.State(); !s.LeftOpen || !s.RightOpen {
		t.Errorf("wide panels must stay open: %+v", s)
	}
}

func TestAutoCloseOnAction(t *testing.T) {
	tests := []struct {
		name   string
		open   func(*Controller)
		action func(*Controller)
	}{
		{"conversation chosen closes left", (*Controller).ToggleLeft, (*Controller).ConversationChosen},
		{"feedback submitted closes right", (*Controller).ToggleRight, (*Controller).FeedbackSubmitted},
		{"document uploaded closes right", (*Controller).ToggleRight, (*Controller).DocumentUploaded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New(NewTerminalViewport(80), 100)
			tc.open(c)
			tc.action(c)
			if s := c.State(); s.LeftOpen || s.RightOpen {
				t.Errorf("expected both closed, got %+v", s)
			}
		})
	}
}

func TestAutoClose_NoEffectWhenWide(t *testing.T) {
	c := New(NewTerminalViewport(140), 100)
	c.ConversationChosen()
	c.FeedbackSubmitted()
	if s := c.State(); !s.LeftOpen || !s.RightOpen {
		t.Errorf("wide panels must stay open: %+v", s)
	}
}

func TestOnChange_ReceivesState(t *testing.T) {
	c := New(NewTerminalViewport(80), 100)
	var got []PanelState
	c.OnChange(func(s PanelState) { got = append(got, s) })

	c.ToggleLeft()
	c.ConversationChosen()
	c.ConversationChosen() // already closed

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if !got[0].LeftOpen || got[1].LeftOpen {
		t.Errorf("notifications = %+v", got)
	}
}

func TestClose_StopsFollowingViewport(t *testing.T) {
	vp := NewTerminalViewport(140)
	c := New(vp, 100)
	c.Close()

	vp.SetWidth(60)
	if c.State().Class != Wide {
		t.Error("closed controller still reacted to resize")
	}
	c.Close()
}
