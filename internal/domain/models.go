package domain

import "time"

// QuizStatus is the global quiz phase. There is no terminal state; finishing
// is signaled per participant.
type QuizStatus string

const (
	QuizWaiting QuizStatus = "waiting"
	QuizPlaying QuizStatus = "playing"
)

// DiscussionStatus is the global discussion phase.
type DiscussionStatus string

const (
	DiscussionWaiting    DiscussionStatus = "waiting"
	DiscussionDiscussing DiscussionStatus = "discussing"
	DiscussionFinished   DiscussionStatus = "finished"
)

// Participant is a joined connection. Nicknames are neither unique nor
// validated.
type Participant struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// QuizQuestion is one entry of the fixed quiz list. Answer matching is a
// case-sensitive string comparison against Answer.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuestionView is the client-facing question shape with the answer stripped.
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// View returns the question without its answer.
func (q QuizQuestion) View() QuestionView {
	return QuestionView{Question: q.Question, Options: q.Options}
}

// DiscussionQuestion is one entry of the fixed discussion list. Reason is the
// teacher-facing rationale shown on the dashboard.
type DiscussionQuestion struct {
	Question string `json:"question"`
	Reason   string `json:"reason"`
}

// DiscussionResponse is an append-only log entry tagged by question index.
type DiscussionResponse struct {
	Nickname      string `json:"nickname"`
	Text          string `json:"text"`
	QuestionIndex int    `json:"questionIndex"`
	Timestamp     int64  `json:"timestamp"`
}

// DiscussionState is the full discussion snapshot sent on every discussion
// mutation and to newly connecting clients mid-discussion.
type DiscussionState struct {
	Status               DiscussionStatus     `json:"status"`
	CurrentQuestionIndex int                  `json:"currentQuestionIndex"`
	CurrentQuestion      DiscussionQuestion   `json:"currentQuestion"`
	Responses            []DiscussionResponse `json:"responses"`
	AllResponses         []DiscussionResponse `json:"allResponses"`
	AllQuestions         []DiscussionQuestion `json:"allQuestions"`
}

// ContentSet bundles the fixed quiz and discussion question lists. It is
// resolved once at startup; the classroom never reloads it.
type ContentSet struct {
	ID                  string               `json:"id"`
	QuizQuestions       []QuizQuestion       `json:"quizQuestions"`
	DiscussionQuestions []DiscussionQuestion `json:"discussionQuestions"`
}

// SurveyResponse is one stored accessibility-audit submission. Fields mirror
// the collection form; everything beyond the team identity is optional.
type SurveyResponse struct {
	ID                    int64     `json:"id"`
	TeamName              string    `json:"teamName"`
	TeamMembers           string    `json:"teamMembers"`
	Building              string    `json:"building,omitempty"`
	Floor                 string    `json:"floor,omitempty"`
	Gender                string    `json:"gender,omitempty"`
	DreamSchool           string    `json:"dreamSchool,omitempty"`
	WhyNotUse             string    `json:"whyNotUse,omitempty"`
	DoorType              string    `json:"doorType,omitempty"`
	Width                 string    `json:"width,omitempty"`
	Height                string    `json:"height,omitempty"`
	Photos                []string  `json:"photos,omitempty"`
	HandrailTypes         []string  `json:"handrailTypes,omitempty"`
	HasSink               string    `json:"hasSink,omitempty"`
	CanWash               string    `json:"canWash,omitempty"`
	SinkHeight            string    `json:"sinkHeight,omitempty"`
	HasAccessibleRestroom string    `json:"hasAccessibleRestroom,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}
