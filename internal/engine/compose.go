// internal/engine/compose.go
package engine

import (
	"errors"
	"fmt"

	"footfit/internal/models"
)

var ErrIncompleteProfile = errors.New("INCOMPLETE_PROFILE")

// Composition is the deterministic part of a recommendation.
type Composition struct {
	MaterialSpec  string `json:"materialSpec"`
	Justification string `json:"justification"`
}

// Compose runs the base lookup and the weight, activity and gender rules.
// Identical profiles always produce identical compositions.
func Compose(p models.UserProfile) (Composition, error) {
	if missing := p.MissingFields(); len(missing) > 0 {
		return Composition{}, fmt.Errorf("%w: missing %v", ErrIncompleteProfile, missing)
	}

	d := &draft{}
	for _, r := range pipeline {
		if r.applies(p) {
			r.apply(d, p)
		}
	}
	return d.render(), nil
}

// DecorateBrand applies the age rule to a drawn brand name.
func DecorateBrand(brand string, p models.UserProfile) string {
	if p.AgeGroup == models.AgeUnder18 {
		return brand + YouthSuffix
	}
	return brand
}
