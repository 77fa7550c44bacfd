package types

// InterviewQA is a generated interview question with a model answer.
type InterviewQA struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// InterviewSet groups the questions generated for one topic.
type InterviewSet struct {
	Topic     string        `json:"topic"`
	Questions []InterviewQA `json:"questions"`
}
