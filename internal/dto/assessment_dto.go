package dto

type AssignTestRequest struct {
	ApplicationID  string `json:"applicationId"`
	ExpiresInHours int    `json:"expiresInHours"`
}

type PreviewTestRequest struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

type SubmitTestRequest struct {
	Token   string   `json:"token"`
	Answers []string `json:"answers"`
}

type ResetTestRequest struct {
	ApplicationID string `json:"applicationId"`
}
