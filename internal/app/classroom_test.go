package app_test

import (
	"testing"
	"time"

	"classroom-live-service/internal/app"
	"classroom-live-service/internal/domain"
)

func testContent() domain.ContentSet {
	return domain.ContentSet{
		ID: "test",
		QuizQuestions: []domain.QuizQuestion{
			{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
		},
		DiscussionQuestions: []domain.DiscussionQuestion{
			{Question: "d1", Reason: "r1"},
			{Question: "d2", Reason: "r2"},
			{Question: "d3", Reason: "r3"},
			{Question: "d4", Reason: "r4"},
		},
	}
}

func newTestClassroom() *app.Classroom {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	return app.NewClassroomWithClock(testContent(), func() time.Time { return base })
}

// drain empties every event already queued for a connection. Emissions happen
// synchronously inside each classroom call, so by the time a call returns the
// channel holds everything it produced.
func drain(ch <-chan app.Event) []app.Event {
	var out []app.Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventsOfType(events []app.Event, eventType string) []app.Event {
	var out []app.Event
	for _, ev := range events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestQuizAnswerFlow(t *testing.T) {
	classroom := newTestClassroom()

	student := classroom.Connect("s1")
	teacher := classroom.Connect("t1")
	classroom.Join("s1", "Alice")
	drain(student)
	drain(teacher)

	classroom.StartQuiz("t1")
	events := drain(student)
	if len(eventsOfType(events, app.EventGameStarted)) != 1 {
		t.Fatalf("expected gameStarted, got %+v", events)
	}
	questions := eventsOfType(events, app.EventQuestion)
	if len(questions) != 1 {
		t.Fatalf("expected one question broadcast, got %+v", events)
	}
	view := questions[0].Payload.(domain.QuestionView)
	if view.Question != "2+2?" {
		t.Fatalf("expected first question, got %+v", view)
	}

	classroom.SubmitAnswer("s1", "3")
	events = drain(student)
	if len(events) != 1 || events[0].Type != app.EventIncorrect {
		t.Fatalf("expected exactly one incorrect emission, got %+v", events)
	}
	if got := classroom.Snapshot().Progress["s1"]; got != 0 {
		t.Fatalf("expected progress 0 after wrong answer, got %d", got)
	}

	classroom.SubmitAnswer("s1", "4")
	events = drain(student)
	if len(eventsOfType(events, app.EventCorrect)) != 1 {
		t.Fatalf("expected one correct emission, got %+v", events)
	}
	if len(eventsOfType(events, app.EventFinished)) != 1 {
		t.Fatalf("expected finished after final question, got %+v", events)
	}
	progress := eventsOfType(events, app.EventProgressUpdate)
	if len(progress) != 1 {
		t.Fatalf("expected one progress broadcast, got %+v", events)
	}
	if got := progress[0].Payload.(map[string]int)["s1"]; got != 1 {
		t.Fatalf("expected broadcast progress 1, got %d", got)
	}

	// The teacher dashboard sees the same progress broadcast.
	teacherEvents := drain(teacher)
	if len(eventsOfType(teacherEvents, app.EventProgressUpdate)) == 0 {
		t.Fatalf("expected teacher to receive progress broadcast, got %+v", teacherEvents)
	}
}

func TestSubmitAfterCompletionIsNoOp(t *testing.T) {
	classroom := newTestClassroom()
	student := classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.StartQuiz("t-absent")
	classroom.SubmitAnswer("s1", "4")
	drain(student)

	classroom.SubmitAnswer("s1", "4")
	if events := drain(student); len(events) != 0 {
		t.Fatalf("expected no emissions after completion, got %+v", events)
	}
	if got := classroom.Snapshot().Progress["s1"]; got != 1 {
		t.Fatalf("expected progress to stay at 1, got %d", got)
	}
}

func TestProgressNeverExceedsQuestionCount(t *testing.T) {
	classroom := newTestClassroom()
	ch := classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.StartQuiz("s1")
	for i := 0; i < 5; i++ {
		classroom.SubmitAnswer("s1", "4")
		drain(ch)
	}
	got := classroom.Snapshot().Progress["s1"]
	if got < 0 || got > len(testContent().QuizQuestions) {
		t.Fatalf("progress out of range: %d", got)
	}
}

func TestStartQuizResetsAllProgress(t *testing.T) {
	classroom := newTestClassroom()
	a := classroom.Connect("a")
	b := classroom.Connect("b")
	classroom.Join("a", "Alice")
	classroom.Join("b", "Bob")
	classroom.StartQuiz("a")
	classroom.SubmitAnswer("a", "4")
	drain(a)
	drain(b)

	classroom.StartQuiz("a")
	snap := classroom.Snapshot()
	if snap.QuizStatus != domain.QuizPlaying {
		t.Fatalf("expected playing, got %s", snap.QuizStatus)
	}
	for id, score := range snap.Progress {
		if score != 0 {
			t.Fatalf("expected progress reset, %s has %d", id, score)
		}
	}
}

func TestGetQuestionResync(t *testing.T) {
	classroom := newTestClassroom()
	ch := classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.StartQuiz("s1")
	drain(ch)

	classroom.GetQuestion("s1")
	events := drain(ch)
	if len(events) != 1 || events[0].Type != app.EventQuestion {
		t.Fatalf("expected question re-emit, got %+v", events)
	}

	classroom.SubmitAnswer("s1", "4")
	drain(ch)
	classroom.GetQuestion("s1")
	events = drain(ch)
	if len(events) != 1 || events[0].Type != app.EventFinished {
		t.Fatalf("expected finished re-emit after completion, got %+v", events)
	}
}

func TestDiscussionAdvanceToFinish(t *testing.T) {
	classroom := newTestClassroom()
	ch := classroom.Connect("t1")
	classroom.StartDiscussion("t1")
	drain(ch)

	for want := 1; want <= 3; want++ {
		classroom.NextDiscussionQuestion("t1")
		events := drain(ch)
		state := events[len(events)-1].Payload.(domain.DiscussionState)
		if state.Status != domain.DiscussionDiscussing {
			t.Fatalf("expected discussing at step %d, got %s", want, state.Status)
		}
		if state.CurrentQuestionIndex != want {
			t.Fatalf("expected index %d, got %d", want, state.CurrentQuestionIndex)
		}
	}

	classroom.NextDiscussionQuestion("t1")
	events := drain(ch)
	state := events[len(events)-1].Payload.(domain.DiscussionState)
	if state.Status != domain.DiscussionFinished {
		t.Fatalf("expected finished, got %s", state.Status)
	}
	if state.CurrentQuestionIndex != 3 {
		t.Fatalf("expected index to stay at 3, got %d", state.CurrentQuestionIndex)
	}
}

func TestDiscussionResponsesAppendOnly(t *testing.T) {
	classroom := newTestClassroom()
	student := classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.StartDiscussion("t-absent")
	drain(student)

	classroom.SubmitDiscussion("s1", "first", "")
	classroom.SubmitDiscussion("s1", "second", "")
	classroom.SubmitDiscussion("stranger", "anon", "")
	classroom.SubmitDiscussion("s1", "as class", "Whole Class")

	snap := classroom.Snapshot()
	all := snap.Discussion.AllResponses
	if len(all) != 4 {
		t.Fatalf("expected 4 responses, got %d", len(all))
	}
	if all[0].Nickname != "Alice" || all[0].Text != "first" {
		t.Fatalf("unexpected first response: %+v", all[0])
	}
	if all[2].Nickname != "Unknown" {
		t.Fatalf("expected Unknown fallback for non-joined sender, got %q", all[2].Nickname)
	}
	if all[3].Nickname != "Whole Class" {
		t.Fatalf("expected nickname override, got %q", all[3].Nickname)
	}
	for _, r := range all {
		if r.QuestionIndex != 0 {
			t.Fatalf("expected responses tagged with index 0, got %+v", r)
		}
		if r.Timestamp == 0 {
			t.Fatalf("expected timestamp set, got %+v", r)
		}
	}
}

func TestDiscussionStateFiltersByCurrentIndex(t *testing.T) {
	classroom := newTestClassroom()
	ch := classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.StartDiscussion("s1")
	classroom.SubmitDiscussion("s1", "on q0", "")
	classroom.NextDiscussionQuestion("s1")
	classroom.SubmitDiscussion("s1", "on q1", "")
	drain(ch)

	state := classroom.Snapshot().Discussion
	if len(state.AllResponses) != 2 {
		t.Fatalf("expected 2 total responses, got %d", len(state.AllResponses))
	}
	if len(state.Responses) != 1 || state.Responses[0].Text != "on q1" {
		t.Fatalf("expected only current-question responses, got %+v", state.Responses)
	}
}

func TestActivitiesAreMutuallyExclusive(t *testing.T) {
	classroom := newTestClassroom()
	classroom.Connect("t1")

	classroom.StartDiscussion("t1")
	classroom.StartQuiz("t1")
	snap := classroom.Snapshot()
	if snap.QuizStatus != domain.QuizPlaying || snap.Discussion.Status != domain.DiscussionWaiting {
		t.Fatalf("expected quiz to preempt discussion, got %+v", snap)
	}

	classroom.StartDiscussion("t1")
	snap = classroom.Snapshot()
	if snap.QuizStatus != domain.QuizWaiting || snap.Discussion.Status != domain.DiscussionDiscussing {
		t.Fatalf("expected discussion to preempt quiz, got %+v", snap)
	}
}

func TestTeacherDisconnectResetsEverything(t *testing.T) {
	classroom := newTestClassroom()
	classroom.Connect("t1")
	student := classroom.Connect("s1")
	classroom.Join("s1", "Alice")

	classroom.StartDiscussion("t1")
	classroom.SubmitDiscussion("s1", "hello", "")
	classroom.NextDiscussionQuestion("t1")
	classroom.StartQuiz("t1")
	drain(student)

	classroom.Disconnect("t1")
	snap := classroom.Snapshot()
	if snap.QuizStatus != domain.QuizWaiting {
		t.Fatalf("expected quiz waiting after teacher left, got %s", snap.QuizStatus)
	}
	if snap.Discussion.Status != domain.DiscussionWaiting {
		t.Fatalf("expected discussion waiting, got %s", snap.Discussion.Status)
	}
	if snap.Discussion.CurrentQuestionIndex != 0 {
		t.Fatalf("expected index reset, got %d", snap.Discussion.CurrentQuestionIndex)
	}
	if len(snap.Discussion.AllResponses) != 0 {
		t.Fatalf("expected response log cleared, got %+v", snap.Discussion.AllResponses)
	}
	if snap.TeacherID != "" {
		t.Fatalf("expected teacher handle cleared, got %q", snap.TeacherID)
	}
}

func TestLastParticipantLeavingResetsState(t *testing.T) {
	classroom := newTestClassroom()
	classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.StartQuiz("other")
	classroom.SubmitDiscussion("s1", "note", "")

	classroom.Disconnect("s1")
	snap := classroom.Snapshot()
	if len(snap.Participants) != 0 {
		t.Fatalf("expected empty registry, got %+v", snap.Participants)
	}
	if snap.QuizStatus != domain.QuizWaiting {
		t.Fatalf("expected quiz reset when room emptied, got %s", snap.QuizStatus)
	}
	if len(snap.Discussion.AllResponses) != 0 {
		t.Fatalf("expected responses cleared, got %+v", snap.Discussion.AllResponses)
	}
}

func TestJoinBroadcastsRegistryAndProgress(t *testing.T) {
	classroom := newTestClassroom()
	a := classroom.Connect("a")
	drain(a)

	b := classroom.Connect("b")
	drain(b)
	classroom.Join("b", "Bob")

	events := drain(a)
	lists := eventsOfType(events, app.EventStudentListUpdate)
	if len(lists) != 1 {
		t.Fatalf("expected one registry broadcast, got %+v", events)
	}
	participants := lists[0].Payload.([]domain.Participant)
	if len(participants) != 1 || participants[0].Nickname != "Bob" {
		t.Fatalf("unexpected registry payload: %+v", participants)
	}
	if len(eventsOfType(events, app.EventProgressUpdate)) != 1 {
		t.Fatalf("expected progress broadcast on join, got %+v", events)
	}
}

func TestRejoinOverwritesNickname(t *testing.T) {
	classroom := newTestClassroom()
	classroom.Connect("s1")
	classroom.Join("s1", "Alice")
	classroom.Join("s1", "Alicia")

	snap := classroom.Snapshot()
	if len(snap.Participants) != 1 || snap.Participants[0].Nickname != "Alicia" {
		t.Fatalf("expected last nickname to win, got %+v", snap.Participants)
	}
}

func TestConnectSnapshotMidActivity(t *testing.T) {
	classroom := newTestClassroom()
	classroom.Connect("t1")
	classroom.StartQuiz("t1")

	late := classroom.Connect("late")
	events := drain(late)
	if len(eventsOfType(events, app.EventStudentListUpdate)) != 1 {
		t.Fatalf("expected registry snapshot on connect, got %+v", events)
	}
	if len(eventsOfType(events, app.EventGameStarted)) != 1 {
		t.Fatalf("expected gameStarted for mid-quiz joiner, got %+v", events)
	}
	if len(eventsOfType(events, app.EventQuestion)) != 1 {
		t.Fatalf("expected current question for mid-quiz joiner, got %+v", events)
	}

	classroom.StartDiscussion("t1")
	late2 := classroom.Connect("late2")
	events = drain(late2)
	states := eventsOfType(events, app.EventDiscussionState)
	if len(states) != 1 {
		t.Fatalf("expected discussion snapshot on connect, got %+v", events)
	}
	if states[0].Payload.(domain.DiscussionState).Status != domain.DiscussionDiscussing {
		t.Fatalf("expected discussing status in snapshot")
	}
}

func TestJoinMidQuizStartsAtFirstQuestion(t *testing.T) {
	classroom := newTestClassroom()
	classroom.Connect("t1")
	classroom.StartQuiz("t1")

	ch := classroom.Connect("s1")
	drain(ch)
	classroom.Join("s1", "Late Larry")
	events := drain(ch)
	if len(eventsOfType(events, app.EventGameStarted)) != 1 {
		t.Fatalf("expected gameStarted for mid-quiz join, got %+v", events)
	}
	questions := eventsOfType(events, app.EventQuestion)
	if len(questions) != 1 {
		t.Fatalf("expected current question for mid-quiz join, got %+v", events)
	}
	if got := questions[0].Payload.(domain.QuestionView).Question; got != "2+2?" {
		t.Fatalf("expected first question, got %q", got)
	}
}
