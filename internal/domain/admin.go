package domain

import "time"

// School is a participating school being audited.
type School struct {
	ID           int64      `json:"id"`
	SchoolName   string     `json:"schoolName"`
	ContactPhone string     `json:"contactPhone,omitempty"`
	ContactEmail string     `json:"contactEmail,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
}

// SurveyRecord is an admin-reviewed survey entry tied to a school. Data holds
// the raw form payload; only category/status are queried structurally.
type SurveyRecord struct {
	ID          int64          `json:"id"`
	SchoolID    int64          `json:"schoolId"`
	SchoolName  string         `json:"schoolName,omitempty"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Data        map[string]any `json:"data,omitempty"`
	PhotoURLs   []string       `json:"photoUrls,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
	ReviewNote  string         `json:"reviewNote,omitempty"`
	ReviewedBy  string         `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewedAt,omitempty"`
}

// SurveyReview carries a status decision for a survey record.
type SurveyReview struct {
	Status     string `json:"status"`
	ReviewNote string `json:"reviewNote"`
	ReviewedBy string `json:"reviewedBy"`
}

// Evaluation is a single evaluator's verdict within a session.
type Evaluation struct {
	ID             int64      `json:"id"`
	SessionID      int64      `json:"sessionId"`
	EvaluatorName  string     `json:"evaluatorName"`
	OverallComment string     `json:"overallComment,omitempty"`
	Rating         int        `json:"rating"`
	IsCompleted    bool       `json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// EvaluationSession groups evaluations of one surveyed facility.
type EvaluationSession struct {
	ID             int64        `json:"id"`
	SchoolID       int64        `json:"schoolId"`
	ToiletSurveyID int64        `json:"toiletSurveyId"`
	EvaluatorGroup string       `json:"evaluatorGroup"`
	CreatedBy      string       `json:"createdBy"`
	CreatedAt      time.Time    `json:"createdAt"`
	Evaluations    []Evaluation `json:"evaluations,omitempty"`
}

// EvaluationCriterion is one rubric row shown to evaluators.
type EvaluationCriterion struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
}

// Announcement is a dismissible admin notice.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccessibilityGuide is the printable guide document built per school.
type AccessibilityGuide struct {
	ID          int64          `json:"id"`
	SchoolID    int64          `json:"schoolId"`
	SchoolName  string         `json:"schoolName,omitempty"`
	Title       string         `json:"title,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	IsPublished bool           `json:"isPublished"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
