package models

type UploadResponse struct {
	Message   string     `json:"message"`
	Documents []Document `json:"documents"`
}

type MatchItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name,omitempty"`
	Score        float64 `json:"score"`
	RoundedScore float64 `json:"rounded_score"`
	Rank         int     `json:"rank"`
}

type FailureItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type MatchResponse struct {
	Matches  []MatchItem   `json:"matches"`
	Failures []FailureItem `json:"failures,omitempty"`
	Message  string        `json:"message,omitempty"`
}

type ResumeListResponse struct {
	Resumes []Document `json:"resumes"`
	Total   int        `json:"total"`
}
