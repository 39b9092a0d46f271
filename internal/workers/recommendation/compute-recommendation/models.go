package computerecommendation

import "footfit/internal/models"

// Input carries the six profile answers as process variables.
type Input struct {
	AgeGroup           string `json:"ageGroup"`
	Gender             string `json:"gender"`
	WeightGroup        string `json:"weightGroup"`
	ActivityLevel      string `json:"activityLevel"`
	FootArchType       string `json:"footArchType"`
	FootwearPreference string `json:"footwearPreference"`
}

// Profile converts the validated variables to a UserProfile.
func (i Input) Profile() models.UserProfile {
	return models.UserProfile{
		AgeGroup:           models.AgeGroup(i.AgeGroup),
		Gender:             models.Gender(i.Gender),
		WeightGroup:        models.WeightGroup(i.WeightGroup),
		ActivityLevel:      models.ActivityLevel(i.ActivityLevel),
		FootArchType:       models.ArchType(i.FootArchType),
		FootwearPreference: models.FootwearPreference(i.FootwearPreference),
	}
}

type Output struct {
	Brand         string `json:"brand"`
	MaterialSpec  string `json:"materialSpec"`
	Justification string `json:"justification"`
	Tip           string `json:"tip"`
}

// Recommender is the engine surface the worker needs.
type Recommender interface {
	Compute(p models.UserProfile) (*models.Recommendation, error)
}
