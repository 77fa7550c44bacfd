package types

// EmailTemplate is a generated email. Links only contains URLs on trusted
// domains.
type EmailTemplate struct {
	Subject string   `json:"subject" validate:"required"`
	Body    string   `json:"body" validate:"required"`
	Links   []string `json:"links"`
}
