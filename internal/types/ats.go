package types

// ATSReport is the scored comparison of a resume against a job description.
// All scores are in [0, 100].
type ATSReport struct {
	OverallScore    int            `json:"overallScore" validate:"gte=0,lte=100"`
	SectionScores   map[string]int `json:"sectionScores" validate:"required,min=1,dive,gte=0,lte=100"`
	Summary         string         `json:"summary" validate:"required"`
	MatchedKeywords []string       `json:"matchedKeywords"`
	MissingKeywords []string       `json:"missingKeywords"`
	Suggestions     []string       `json:"suggestions"`
}
