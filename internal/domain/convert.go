package domain

// Unit is a glucose concentration unit.
type Unit string

const (
	UnitMgDL  Unit = "mg/dL"
	UnitMmolL Unit = "mmol/L"
)

const mgdlToMmol = 18.0156

// ConvertGlucose converts a concentration between mg/dL and mmol/L.
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertGlucose(v float64, from, to Unit) float64 {
	if from == to {
		return v
	}
	if from == UnitMgDL && to == UnitMmolL {
		return v / mgdlToMmol
	}
	if from == UnitMmolL && to == UnitMgDL {
		return v * mgdlToMmol
	}
	return v
}

// ParseUnit maps a query parameter to a Unit; empty means mg/dL.
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "", "mg/dL", "mgdl", "mg":
		return UnitMgDL, true
	case "mmol/L", "mmol":
		return UnitMmolL, true
	}
	return "", false
}
