package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"classroom-live-service/internal/domain"
)

// ContentRepository loads quiz and discussion content (from cache/backing store).
type ContentRepository interface {
	GetContent(ctx context.Context, setID string) (domain.ContentSet, error)
}

// Presence records joined participants in an external store, best effort.
// Implementations must not block for long; calls happen on the dispatch path.
type Presence interface {
	Track(id, nickname string)
	Forget(id string)
}

// Event is one emission to a client: either part of a broadcast or targeted
// at a single connection.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Server-to-client event names. These are the contract with the frontend.
const (
	EventStudentListUpdate = "studentListUpdate"
	EventGameStarted       = "gameStarted"
	EventQuestion          = "question"
	EventCorrect           = "correct"
	EventIncorrect         = "incorrect"
	EventFinished          = "finished"
	EventProgressUpdate    = "progressUpdate"
	EventDiscussionState   = "discussionState"
)

const clientBuffer = 32

// Classroom owns all real-time state: the session registry, the quiz and
// discussion state machines, and the fanout to connected clients. Every
// mutation runs under one mutex, so logical operations are atomic and events
// are strictly serialized regardless of how many connections act at once.
type Classroom struct {
	mu  sync.Mutex
	now func() time.Time

	quiz       []domain.QuizQuestion
	discussion []domain.DiscussionQuestion

	clients      map[string]chan Event
	participants map[string]string
	progress     map[string]int

	quizStatus       domain.QuizStatus
	discussionStatus domain.DiscussionStatus
	discussionIndex  int
	responses        []domain.DiscussionResponse

	// teacherID is whichever connection most recently started a quiz or
	// discussion. No authentication; the classroom domain tolerates it.
	teacherID string

	presence Presence
}

func NewClassroom(content domain.ContentSet) *Classroom {
	return NewClassroomWithClock(content, time.Now)
}

// NewClassroomWithClock allows deterministic timestamps in tests.
func NewClassroomWithClock(content domain.ContentSet, now func() time.Time) *Classroom {
	return &Classroom{
		now:              now,
		quiz:             content.QuizQuestions,
		discussion:       content.DiscussionQuestions,
		clients:          make(map[string]chan Event),
		participants:     make(map[string]string),
		progress:         make(map[string]int),
		quizStatus:       domain.QuizWaiting,
		discussionStatus: domain.DiscussionWaiting,
	}
}

// SetPresence attaches an optional presence recorder. Must be called before
// connections are accepted.
func (c *Classroom) SetPresence(p Presence) {
	c.presence = p
}

// Connect registers a connection and pushes the catch-up snapshot: the
// current participant list, the quiz state if one is in progress, and the
// discussion state if one is in progress. The returned channel delivers all
// subsequent emissions for this connection.
func (c *Classroom) Connect(connID string) <-chan Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, clientBuffer)
	c.clients[connID] = ch

	c.emitLocked(ch, Event{Type: EventStudentListUpdate, Payload: c.participantsLocked()})

	if c.quizStatus == domain.QuizPlaying {
		c.emitLocked(ch, Event{Type: EventGameStarted})
		c.emitQuestionLocked(connID, ch)
	}
	if c.discussionStatus == domain.DiscussionDiscussing {
		c.emitLocked(ch, Event{Type: EventDiscussionState, Payload: c.discussionStateLocked()})
	}
	return ch
}

// Disconnect removes the connection. If it was the teacher, all activity
// state resets to waiting. If it was a joined participant, the registry and
// progress map shrink and everyone is notified; an emptied registry also
// resets all activity state.
func (c *Classroom) Disconnect(connID string) {
	c.mu.Lock()

	if ch, ok := c.clients[connID]; ok {
		delete(c.clients, connID)
		close(ch)
	}

	if connID == c.teacherID {
		c.resetLocked()
		c.teacherID = ""
	}

	_, joined := c.participants[connID]
	if joined {
		delete(c.participants, connID)
		delete(c.progress, connID)
		c.broadcastLocked(Event{Type: EventStudentListUpdate, Payload: c.participantsLocked()})
		c.broadcastLocked(Event{Type: EventProgressUpdate, Payload: c.progressLocked()})
		if len(c.participants) == 0 {
			c.resetLocked()
		}
	}
	c.mu.Unlock()

	if joined && c.presence != nil {
		c.presence.Forget(connID)
	}
}

// Join registers the connection as a participant. Repeat joins overwrite the
// nickname and reset the participant's progress; empty nicknames are
// accepted as-is.
func (c *Classroom) Join(connID, nickname string) {
	c.mu.Lock()
	c.participants[connID] = nickname
	c.progress[connID] = 0

	c.broadcastLocked(Event{Type: EventStudentListUpdate, Payload: c.participantsLocked()})
	c.broadcastLocked(Event{Type: EventProgressUpdate, Payload: c.progressLocked()})

	ch := c.clients[connID]
	if ch != nil && c.quizStatus == domain.QuizPlaying {
		c.emitLocked(ch, Event{Type: EventGameStarted})
		c.emitQuestionLocked(connID, ch)
	}
	if ch != nil && c.discussionStatus == domain.DiscussionDiscussing {
		c.emitLocked(ch, Event{Type: EventDiscussionState, Payload: c.discussionStateLocked()})
	}
	c.mu.Unlock()

	if c.presence != nil {
		c.presence.Track(connID, nickname)
	}
}

// StartQuiz makes the caller the teacher, resets every participant's
// progress, forces the discussion back to waiting, and pushes the first
// question to everyone. Each participant advances independently from here.
func (c *Classroom) StartQuiz(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teacherID = connID
	c.quizStatus = domain.QuizPlaying
	c.discussionStatus = domain.DiscussionWaiting
	for id := range c.participants {
		c.progress[id] = 0
	}

	c.broadcastLocked(Event{Type: EventGameStarted})
	c.broadcastLocked(Event{Type: EventProgressUpdate, Payload: c.progressLocked()})
	if len(c.quiz) > 0 {
		c.broadcastLocked(Event{Type: EventQuestion, Payload: c.quiz[0].View()})
	}
}

// SubmitAnswer checks the answer against the question at the caller's own
// progress index. A correct answer advances the caller by one and everyone
// sees the new progress map; an incorrect answer changes nothing and the
// caller may retry indefinitely. Submissions after completion are no-ops.
func (c *Classroom) SubmitAnswer(connID, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.progress[connID]
	if current >= len(c.quiz) {
		return
	}

	ch := c.clients[connID]
	if answer != c.quiz[current].Answer {
		if ch != nil {
			c.emitLocked(ch, Event{Type: EventIncorrect})
		}
		return
	}

	c.progress[connID] = current + 1
	if ch != nil {
		c.emitLocked(ch, Event{Type: EventCorrect})
	}
	c.broadcastLocked(Event{Type: EventProgressUpdate, Payload: c.progressLocked()})
	if ch != nil {
		c.emitQuestionLocked(connID, ch)
	}
}

// GetQuestion re-sends the caller's current question (or the finished signal
// when the quiz is live and the caller is done). Used for refresh recovery.
func (c *Classroom) GetQuestion(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.clients[connID]
	if ch == nil {
		return
	}
	current := c.progress[connID]
	if current < len(c.quiz) {
		c.emitLocked(ch, Event{Type: EventQuestion, Payload: c.quiz[current].View()})
	} else if c.quizStatus == domain.QuizPlaying {
		c.emitLocked(ch, Event{Type: EventFinished})
	}
}

// StartDiscussion makes the caller the teacher, rewinds the discussion to
// the first question with an empty response log, and forces the quiz back to
// waiting. Only one activity is live at a time.
func (c *Classroom) StartDiscussion(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teacherID = connID
	c.discussionStatus = domain.DiscussionDiscussing
	c.quizStatus = domain.QuizWaiting
	c.discussionIndex = 0
	c.responses = nil
	c.broadcastLocked(Event{Type: EventDiscussionState, Payload: c.discussionStateLocked()})
}

// NextDiscussionQuestion advances the shared question pointer, or transitions
// to finished when already on the last question. Finished is terminal; only a
// fresh StartDiscussion leaves it.
func (c *Classroom) NextDiscussionQuestion(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discussionIndex < len(c.discussion)-1 {
		c.discussionIndex++
	} else {
		c.discussionStatus = domain.DiscussionFinished
	}
	c.broadcastLocked(Event{Type: EventDiscussionState, Payload: c.discussionStateLocked()})
}

// SubmitDiscussion appends a response tagged with the current question index.
// The nickname comes from the registry unless the caller supplies an explicit
// override (the teacher dashboard submits on behalf of the class). Responses
// are never validated, deduplicated, or rate limited.
func (c *Classroom) SubmitDiscussion(connID, text, nicknameOverride string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nickname := nicknameOverride
	if nickname == "" {
		var ok bool
		nickname, ok = c.participants[connID]
		if !ok {
			nickname = "Unknown"
		}
	}
	c.responses = append(c.responses, domain.DiscussionResponse{
		Nickname:      nickname,
		Text:          text,
		QuestionIndex: c.discussionIndex,
		Timestamp:     c.now().UnixMilli(),
	})
	c.broadcastLocked(Event{Type: EventDiscussionState, Payload: c.discussionStateLocked()})
}

// resetLocked returns both activities to waiting and clears the discussion
// log. Triggered by teacher disconnect or an emptied registry.
func (c *Classroom) resetLocked() {
	c.quizStatus = domain.QuizWaiting
	c.discussionStatus = domain.DiscussionWaiting
	c.discussionIndex = 0
	c.responses = nil
	c.broadcastLocked(Event{Type: EventDiscussionState, Payload: c.discussionStateLocked()})
}

func (c *Classroom) emitQuestionLocked(connID string, ch chan Event) {
	if c.progress[connID] < len(c.quiz) {
		c.emitLocked(ch, Event{Type: EventQuestion, Payload: c.quiz[c.progress[connID]].View()})
	} else {
		c.emitLocked(ch, Event{Type: EventFinished})
	}
}

func (c *Classroom) participantsLocked() []domain.Participant {
	list := make([]domain.Participant, 0, len(c.participants))
	for id, nickname := range c.participants {
		list = append(list, domain.Participant{ID: id, Nickname: nickname})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (c *Classroom) progressLocked() map[string]int {
	snapshot := make(map[string]int, len(c.progress))
	for id, score := range c.progress {
		snapshot[id] = score
	}
	return snapshot
}

func (c *Classroom) discussionStateLocked() domain.DiscussionState {
	current := domain.DiscussionQuestion{}
	if c.discussionIndex < len(c.discussion) {
		current = c.discussion[c.discussionIndex]
	}
	filtered := make([]domain.DiscussionResponse, 0)
	for _, r := range c.responses {
		if r.QuestionIndex == c.discussionIndex {
			filtered = append(filtered, r)
		}
	}
	all := make([]domain.DiscussionResponse, len(c.responses))
	copy(all, c.responses)
	return domain.DiscussionState{
		Status:               c.discussionStatus,
		CurrentQuestionIndex: c.discussionIndex,
		CurrentQuestion:      current,
		Responses:            filtered,
		AllResponses:         all,
		AllQuestions:         c.discussion,
	}
}

// Snapshot is a point-in-time copy of the coordination state, served on the
// debug endpoint and used by tests.
type Snapshot struct {
	Participants []domain.Participant   `json:"participants"`
	Progress     map[string]int         `json:"progress"`
	QuizStatus   domain.QuizStatus      `json:"quizStatus"`
	Discussion   domain.DiscussionState `json:"discussion"`
	TeacherID    string                 `json:"teacherId,omitempty"`
}

// Snapshot copies the current state under the dispatch lock.
func (c *Classroom) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Participants: c.participantsLocked(),
		Progress:     c.progressLocked(),
		QuizStatus:   c.quizStatus,
		Discussion:   c.discussionStateLocked(),
		TeacherID:    c.teacherID,
	}
}

func (c *Classroom) broadcastLocked(ev Event) {
	for _, ch := range c.clients {
		c.emitLocked(ch, ev)
	}
}

func (c *Classroom) emitLocked(ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
		// Drop the oldest queued event so a slow client never blocks dispatch.
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}
