// internal/engine/select.go
package engine

import "footfit/internal/models"

// Source is the random draw used for brand and tip selection.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

var brandPools = map[models.FootwearPreference][]string{
	models.FootwearRunning:       {"Brooks", "ASICS", "Hoka"},
	models.FootwearCrossTraining: {"Nike Metcon", "Reebok Nano", "NOBULL"},
	models.FootwearCasual:        {"New Balance", "Skechers", "Clarks"},
	models.FootwearSandals:       {"Birkenstock", "Teva", "Chaco"},
}

var tips = []string{
	"Replace running shoes every 500-800 km, once the midsole stops springing back.",
	"Let wet shoes air-dry at room temperature; direct heat breaks down glue and foam.",
	"Rotate between two pairs so the midsole can recover between sessions.",
	"Loosen the laces fully before taking shoes off to protect the heel counter.",
	"Try shoes on late in the day, when your feet are at their largest.",
}

// Brands returns a copy of the candidate pool for a footwear preference.
func Brands(pref models.FootwearPreference) []string {
	return append([]string(nil), brandPools[pref]...)
}

// Tips returns a copy of the tip list.
func Tips() []string {
	return append([]string(nil), tips...)
}

// PickBrand draws one brand uniformly from the preference's pool.
func PickBrand(src Source, pref models.FootwearPreference) string {
	pool := brandPools[pref]
	if len(pool) == 0 {
		return ""
	}
	return pool[src.IntN(len(pool))]
}

// PickTip draws one tip uniformly; the profile plays no part.
func PickTip(src Source) string {
	return tips[src.IntN(len(tips))]
}
