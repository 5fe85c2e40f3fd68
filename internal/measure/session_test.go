package measure

import (
	"testing"

	"radview/pkg/geometry"
)

func toolByID(t *testing.T, id string) *ToolDefinition {
	t.Helper()
	def, ok := FindTool(id)
	if !ok {
		t.Fatalf("tool %q not found", id)
	}
	return &def
}

func TestSessionCompletesAtArity(t *testing.T) {
	s := NewSession()
	s.SelectTool(toolByID(t, "distance"))

	if m := s.AddPoint(geometry.Point2D{X: 0, Y: 0}); m != nil {
		t.Fatalf("measurement emitted after 1 of 2 points")
	}
	if got := s.Phase(); got != PhaseCollecting {
		t.Fatalf("phase = %v, want PhaseCollecting", got)
	}

	m := s.AddPoint(geometry.Point2D{X: 10, Y: 0})
	if m == nil {
		t.Fatal("no measurement emitted at arity")
	}
	if m.ToolID != "distance" {
		t.Errorf("ToolID = %q, want %q", m.ToolID, "distance")
	}
	if len(m.Points) != 2 {
		t.Errorf("len(Points) = %d, want 2", len(m.Points))
	}
	if m.Value != "1.0mm" {
		t.Errorf("Value = %q, want %q", m.Value, "1.0mm")
	}

	// Tool stays selected and points are cleared for the next measurement.
	if got := s.Phase(); got != PhaseIdle {
		t.Errorf("phase after completion = %v, want PhaseIdle", got)
	}
	if s.ActiveTool() == nil || s.ActiveTool().ID != "distance" {
		t.Error("active tool lost after completion")
	}
	if len(s.Points()) != 0 {
		t.Errorf("points not cleared after completion: %v", s.Points())
	}
}

func TestSessionToolSwitchDiscardsPoints(t *testing.T) {
	s := NewSession()
	s.SelectTool(toolByID(t, "cobb_angle"))

	s.AddPoint(geometry.Point2D{X: 1, Y: 1})
	s.AddPoint(geometry.Point2D{X: 2, Y: 2})
	if len(s.Points()) != 2 {
		t.Fatalf("expected 2 collected points, got %d", len(s.Points()))
	}

	// Switching tools mid-collection throws the partial set away.
	s.SelectTool(toolByID(t, "angle"))
	if len(s.Points()) != 0 {
		t.Fatalf("points survived tool switch: %v", s.Points())
	}

	m1 := s.AddPoint(geometry.Point2D{X: 0, Y: 0})
	m2 := s.AddPoint(geometry.Point2D{X: 10, Y: 0})
	m3 := s.AddPoint(geometry.Point2D{X: 10, Y: 10})
	if m1 != nil || m2 != nil {
		t.Fatal("angle tool emitted before third point")
	}
	if m3 == nil {
		t.Fatal("angle tool did not emit at third point")
	}
	for i, p := range m3.Points {
		if p != [3]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}[i] {
			t.Errorf("point %d = %v, contains pre-switch data", i, p)
		}
	}
	if m3.Value != "90.0°" {
		t.Errorf("Value = %q, want %q", m3.Value, "90.0°")
	}
}

func TestSessionClearCurrentMeasurement(t *testing.T) {
	s := NewSession()
	s.SelectTool(toolByID(t, "sacral_slope"))

	s.AddPoint(geometry.Point2D{X: 1, Y: 1})
	s.AddPoint(geometry.Point2D{X: 2, Y: 2})
	s.ClearCurrentMeasurement()

	if got := s.Phase(); got != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", got)
	}
	if len(s.Points()) != 0 {
		t.Errorf("points survived clear: %v", s.Points())
	}
	if s.ActiveTool() == nil {
		t.Error("clear deselected the tool")
	}
}

func TestSessionHandToolIgnoresClicks(t *testing.T) {
	s := NewSession()
	s.SelectTool(nil)

	if m := s.AddPoint(geometry.Point2D{X: 5, Y: 5}); m != nil {
		t.Fatal("hand tool produced a measurement")
	}
	if len(s.Points()) != 0 {
		t.Errorf("hand tool collected points: %v", s.Points())
	}
	if got := s.Phase(); got != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", got)
	}
}

func TestToolsFor(t *testing.T) {
	tests := []struct {
		name     string
		category ExamCategory
		wantIDs  []string
	}{
		{
			name:     "frontal set",
			category: CategoryFrontal,
			wantIDs:  []string{"cobb_angle", "clavicle_angle", "pelvic_obliquity", "trunk_shift"},
		},
		{
			name:     "lateral set",
			category: CategoryLateral,
			wantIDs:  []string{"thoracic_kyphosis", "lumbar_lordosis", "sacral_slope", "sagittal_axis"},
		},
		{
			name:     "unknown category falls back to generic tools",
			category: ExamCategory("oblique"),
			wantIDs:  []string{"distance", "angle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := ToolsFor(tt.category)
			if len(tools) != len(tt.wantIDs) {
				t.Fatalf("got %d tools, want %d", len(tools), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if tools[i].ID != id {
					t.Errorf("tool %d = %q, want %q", i, tools[i].ID, id)
				}
				if tools[i].PointsNeeded < 2 {
					t.Errorf("tool %q needs %d points, minimum is 2", id, tools[i].PointsNeeded)
				}
			}
		})
	}
}

func TestToolsForReturnsCopy(t *testing.T) {
	a := ToolsFor(CategoryFrontal)
	a[0].DisplayName = "mutated"
	b := ToolsFor(CategoryFrontal)
	if b[0].DisplayName == "mutated" {
		t.Error("ToolsFor exposes shared backing array")
	}
}
