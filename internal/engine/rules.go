// internal/engine/rules.go
package engine

import (
	"strings"

	"footfit/internal/models"
)

// Clause texts the rule pipeline adds on top of the base table.
const (
	GenderClause         = "Narrow-heel, contoured fit for a secure lockdown."
	HighActivityMaterial = "breathable mesh upper panels for airflow"
	HighActivityClause   = "Ideal for frequent activity."
	LowActivityMaterial  = "soft, flexible outsole"
	LowActivityClause    = "Better for low-activity comfort."
	YouthSuffix          = " (Youth Edition)"
)

// term is one piece of text with an optional load-bearing wording used for
// the heaviest weight tier.
type term struct {
	text  string
	heavy string
}

func (t term) loadBearing() term {
	if t.heavy == "" {
		return t
	}
	return term{text: t.heavy}
}

type baseEntry struct {
	material      []term
	justification []term
}

// draft accumulates structured clauses; it is rendered exactly once.
type draft struct {
	material      []term
	justification []term
}

func (d *draft) render() Composition {
	mat := make([]string, len(d.material))
	for i, t := range d.material {
		mat[i] = t.text
	}
	just := make([]string, len(d.justification))
	for i, t := range d.justification {
		just[i] = t.text
	}
	return Composition{
		MaterialSpec:  strings.Join(mat, ", "),
		Justification: strings.Join(just, " "),
	}
}

var runningByArch = map[models.ArchType]baseEntry{
	models.ArchFlat: {
		material: []term{
			{text: "Arch-stability foam midsole", heavy: "Arch-stability foam midsole in a high-density compound"},
			{text: "firm medial post", heavy: "reinforced medial post"},
			{text: "structured heel counter", heavy: "reinforced heel counter"},
		},
		justification: []term{
			{
				text:  "Flat arches benefit from medial support that limits overpronation.",
				heavy: "Flat arches benefit from medial support that limits overpronation, with extra durability for heavier strides.",
			},
		},
	},
	models.ArchNormal: {
		material: []term{
			{text: "Neutral responsive foam midsole", heavy: "Neutral responsive foam midsole in a high-density compound"},
			{text: "engineered mesh upper"},
			{text: "durable rubber outsole", heavy: "reinforced rubber outsole"},
		},
		justification: []term{
			{
				text:  "A neutral platform keeps a natural stride efficient.",
				heavy: "A neutral platform keeps a natural stride efficient, with extra durability for heavier strides.",
			},
		},
	},
	models.ArchHigh: {
		material: []term{
			{text: "Plush cushioned foam midsole", heavy: "Plush high-density cushioned foam midsole"},
			{text: "flexible forefoot grooves"},
			{text: "padded collar", heavy: "reinforced padded collar"},
		},
		justification: []term{
			{
				text:  "High arches absorb less shock, so generous cushioning spreads the impact.",
				heavy: "High arches absorb less shock, so generous cushioning spreads the impact with extra durability for heavier strides.",
			},
		},
	},
}

var baseByFootwear = map[models.FootwearPreference]baseEntry{
	models.FootwearCrossTraining: {
		material: []term{
			{text: "Flat, stable rubber outsole", heavy: "Flat, reinforced rubber outsole"},
			{text: "low-drop firm midsole", heavy: "low-drop high-density midsole"},
			{text: "lateral sidewall cage"},
		},
		justification: []term{
			{
				text:  "A flat, stable base supports lifting and quick lateral movement.",
				heavy: "A flat, stable base supports lifting and quick lateral movement, with extra durability under heavier loads.",
			},
		},
	},
	models.FootwearCasual: {
		material: []term{
			{text: "Cushioned EVA footbed", heavy: "Cushioned high-density EVA footbed"},
			{text: "leather or canvas upper"},
			{text: "rubber cupsole", heavy: "reinforced rubber cupsole"},
		},
		justification: []term{
			{
				text:  "Everyday comfort from a cushioned, versatile build.",
				heavy: "Everyday comfort from a cushioned, versatile build, with extra durability for all-day wear.",
			},
		},
	},
	models.FootwearSandals: {
		material: []term{
			{text: "Contoured cork footbed", heavy: "Contoured high-density cork footbed"},
			{text: "adjustable straps", heavy: "reinforced adjustable straps"},
			{text: "grippy rubber sole"},
		},
		justification: []term{
			{
				text:  "A contoured footbed supports the foot through warm-weather wear.",
				heavy: "A contoured footbed supports the foot through warm-weather wear, with extra durability under heavier loads.",
			},
		},
	},
}

// rule is one conditional step of the composition pipeline.
type rule struct {
	name    string
	applies func(models.UserProfile) bool
	apply   func(*draft, models.UserProfile)
}

// pipeline order matters: later rules see the clauses earlier rules produced.
var pipeline = []rule{
	{
		name:    "base",
		applies: func(models.UserProfile) bool { return true },
		apply: func(d *draft, p models.UserProfile) {
			entry := lookupBase(p)
			d.material = append([]term(nil), entry.material...)
			d.justification = append([]term(nil), entry.justification...)
		},
	},
	{
		name:    "weight",
		applies: func(p models.UserProfile) bool { return p.WeightGroup == models.WeightOver90 },
		apply: func(d *draft, _ models.UserProfile) {
			for i := range d.material {
				d.material[i] = d.material[i].loadBearing()
			}
			for i := range d.justification {
				d.justification[i] = d.justification[i].loadBearing()
			}
		},
	},
	{
		name:    "activity-high",
		applies: func(p models.UserProfile) bool { return p.ActivityLevel == models.ActivityHigh },
		apply: func(d *draft, _ models.UserProfile) {
			d.material = append(d.material, term{text: HighActivityMaterial})
			d.justification = append(d.justification, term{text: HighActivityClause})
		},
	},
	{
		name:    "activity-low",
		applies: func(p models.UserProfile) bool { return p.ActivityLevel == models.ActivityLow },
		apply: func(d *draft, _ models.UserProfile) {
			d.material = append(d.material, term{text: LowActivityMaterial})
			d.justification = append(d.justification, term{text: LowActivityClause})
		},
	},
	{
		name:    "gender",
		applies: func(p models.UserProfile) bool { return p.Gender == models.GenderFemale },
		apply: func(d *draft, _ models.UserProfile) {
			d.justification = append([]term{{text: GenderClause}}, d.justification...)
		},
	},
}

// Running is split by arch type; every other category ignores the arch.
func lookupBase(p models.UserProfile) baseEntry {
	if p.FootwearPreference == models.FootwearRunning {
		return runningByArch[p.FootArchType]
	}
	return baseByFootwear[p.FootwearPreference]
}

// RuleNames lists the composition rules that fire for a profile, in order.
func RuleNames(p models.UserProfile) []string {
	var names []string
	for _, r := range pipeline {
		if r.applies(p) {
			names = append(names, r.name)
		}
	}
	return names
}
