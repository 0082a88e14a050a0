package goingelectric

// GoingElectric uses German plug names; tariffs are keyed by the names
// Chargeprice uses.
var plugNames = map[string]string{
	"Typ1":                   "Type1",
	"Typ2":                   "Type2",
	"Typ3A":                  "Type3A",
	"Typ3C":                  "Type3C",
	"CCS":                    "CCS",
	"CHAdeMO":                "CHAdeMO",
	"Schuko":                 "Schuko",
	"CEE Blau":               "CEE Blue",
	"CEE Rot":                "CEE Red",
	"Tesla Supercharger":     "Tesla Supercharger",
	"Tesla Supercharger CCS": "CCS",
}

func NormalizePlug(geType string) string {
	if p, ok := plugNames[geType]; ok {
		return p
	}
	return geType
}
