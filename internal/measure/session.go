package measure

import "radview/pkg/geometry"

// Phase is the session state.
type Phase int

const (
	// PhaseIdle means no measuring tool is collecting points.
	PhaseIdle Phase = iota
	// PhaseCollecting means a tool is active and at least one point short of
	// its arity.
	PhaseCollecting
)

// Measurement is a finalized tool result. Points are screen-space pixel
// coordinates at capture time and are immutable once stored; the points slice
// always has exactly the tool's PointsNeeded entries.
type Measurement struct {
	ID          string             `json:"id"`
	ToolID      string             `json:"tool_id"`
	Points      []geometry.Point2D `json:"points"`
	Value       string             `json:"value"`
	Description string             `json:"description"`
}

// Session collects clicked points for the active tool and finalizes a
// Measurement when the tool's arity is satisfied. It is transient state:
// switching tools or completing a measurement clears the collected points.
type Session struct {
	active *ToolDefinition
	points []geometry.Point2D
}

// NewSession creates an idle session with no active tool.
func NewSession() *Session {
	return &Session{}
}

// Phase returns the current session phase.
func (s *Session) Phase() Phase {
	if s.active != nil && len(s.points) > 0 {
		return PhaseCollecting
	}
	return PhaseIdle
}

// ActiveTool returns the active tool definition, or nil when the hand/pan
// tool is selected.
func (s *Session) ActiveTool() *ToolDefinition {
	return s.active
}

// Points returns a copy of the points collected so far.
func (s *Session) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.points))
	copy(out, s.points)
	return out
}

// SelectTool makes the given tool active. Passing nil selects the hand/pan
// tool. Any uncommitted points are discarded; a partial point set never
// survives a tool change.
func (s *Session) SelectTool(tool *ToolDefinition) {
	s.active = tool
	s.points = s.points[:0]
}

// ClearCurrentMeasurement discards the collected points without producing a
// Measurement. The active tool stays selected.
func (s *Session) ClearCurrentMeasurement() {
	s.points = s.points[:0]
}

// AddPoint appends a clicked point. When the point count reaches the active
// tool's arity the completed Measurement is returned (without an ID; the
// owning viewport assigns one) and the session resets its points so the next
// click starts a fresh measurement with the same tool. Clicks while the
// hand/pan tool is active are ignored.
func (s *Session) AddPoint(p geometry.Point2D) *Measurement {
	if s.active == nil {
		return nil
	}

	s.points = append(s.points, p)
	if len(s.points) < s.active.PointsNeeded {
		return nil
	}

	points := make([]geometry.Point2D, s.active.PointsNeeded)
	copy(points, s.points)
	_, value := Compute(s.active.Kind, points)

	m := &Measurement{
		ToolID:      s.active.ID,
		Points:      points,
		Value:       value,
		Description: s.active.DisplayName + " " + value,
	}
	s.points = s.points[:0]
	return m
}
