package validateprofile

// Output reports profile completeness. Field names are the camelCase
// variable names, in collection order.
type Output struct {
	Complete      bool     `json:"complete"`
	MissingFields []string `json:"missingFields"`
	InvalidFields []string `json:"invalidFields"`
}
