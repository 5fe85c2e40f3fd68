// Package measure provides measurement tool definitions, geometric formulas,
// and the point-collection session used by image viewports.
package measure

// FormulaKind selects the geometry routine used to compute a tool's value.
type FormulaKind int

const (
	// Distance2 measures the Euclidean distance between two points.
	Distance2 FormulaKind = iota
	// Angle3 measures the angle at the middle of three points.
	Angle3
	// Angle4Pair measures the angle between two independent line segments
	// (points 0-1 and 2-3).
	Angle4Pair
	// Composite is reserved for derived measurements built from other tools.
	Composite
)

func (k FormulaKind) String() string {
	switch k {
	case Distance2:
		return "distance"
	case Angle3:
		return "angle"
	case Angle4Pair:
		return "angle-pair"
	case Composite:
		return "composite"
	default:
		return "unknown"
	}
}

// ToolDefinition describes one measurement tool: how many points it collects
// and which formula turns those points into a value. Definitions are static
// configuration; they are never mutated at runtime.
type ToolDefinition struct {
	ID           string      `json:"id"`
	DisplayName  string      `json:"display_name"`
	PointsNeeded int         `json:"points_needed"`
	Kind         FormulaKind `json:"kind"`
}

// ExamCategory identifies the acquisition view of a study, which fixes the
// set of tools offered to the clinician.
type ExamCategory string

const (
	CategoryFrontal ExamCategory = "frontal"
	CategoryLateral ExamCategory = "lateral"
	CategoryUnknown ExamCategory = "unknown"
)

// Tool sets are fixed per exam category. Names and point counts are clinical
// contract: they must match the reporting side exactly.
var (
	frontalTools = []ToolDefinition{
		{ID: "cobb_angle", DisplayName: "Cobb Angle", PointsNeeded: 4, Kind: Angle4Pair},
		{ID: "clavicle_angle", DisplayName: "Clavicle Angle", PointsNeeded: 4, Kind: Angle4Pair},
		{ID: "pelvic_obliquity", DisplayName: "Pelvic Obliquity", PointsNeeded: 4, Kind: Angle4Pair},
		{ID: "trunk_shift", DisplayName: "Trunk Shift", PointsNeeded: 2, Kind: Distance2},
	}

	lateralTools = []ToolDefinition{
		{ID: "thoracic_kyphosis", DisplayName: "Thoracic Kyphosis", PointsNeeded: 4, Kind: Angle4Pair},
		{ID: "lumbar_lordosis", DisplayName: "Lumbar Lordosis", PointsNeeded: 4, Kind: Angle4Pair},
		{ID: "sacral_slope", DisplayName: "Sacral Slope", PointsNeeded: 3, Kind: Angle3},
		{ID: "sagittal_axis", DisplayName: "Sagittal Vertical Axis", PointsNeeded: 2, Kind: Distance2},
	}

	genericTools = []ToolDefinition{
		{ID: "distance", DisplayName: "Distance", PointsNeeded: 2, Kind: Distance2},
		{ID: "angle", DisplayName: "Angle", PointsNeeded: 3, Kind: Angle3},
	}
)

// ToolsFor returns the ordered tool set for an exam category. Unrecognized
// categories fall back to the generic distance and angle tools.
func ToolsFor(category ExamCategory) []ToolDefinition {
	var src []ToolDefinition
	switch category {
	case CategoryFrontal:
		src = frontalTools
	case CategoryLateral:
		src = lateralTools
	default:
		src = genericTools
	}
	tools := make([]ToolDefinition, len(src))
	copy(tools, src)
	return tools
}

// FindTool looks up a tool by id across all categories.
func FindTool(id string) (ToolDefinition, bool) {
	for _, set := range [][]ToolDefinition{frontalTools, lateralTools, genericTools} {
		for _, t := range set {
			if t.ID == id {
				return t, true
			}
		}
	}
	return ToolDefinition{}, false
}
