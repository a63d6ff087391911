package memory

import (
	"context"

	"classroom-live-service/internal/domain"
)

// ContentLoader fetches question content from a backing store.
type ContentLoader interface {
	LoadContent(ctx context.Context, setID string) (domain.ContentSet, error)
}

// StaticContentLoader is a loader backed by an in-memory map (tests/demos and
// the no-database default).
type StaticContentLoader struct {
	sets map[string]domain.ContentSet
}

func NewStaticContentLoader(sets map[string]domain.ContentSet) *StaticContentLoader {
	return &StaticContentLoader{sets: sets}
}

func (l *StaticContentLoader) LoadContent(_ context.Context, setID string) (domain.ContentSet, error) {
	if set, ok := l.sets[setID]; ok {
		return set, nil
	}
	return domain.ContentSet{}, domain.ErrContentNotFound
}

// DefaultContentSet is the built-in accessibility-audit lesson used when no
// database is configured.
func DefaultContentSet() domain.ContentSet {
	return domain.ContentSet{
		ID: "accessibility-audit",
		QuizQuestions: []domain.QuizQuestion{
			{
				Question: "Which door is easiest to use from a wheelchair?",
				Options:  []string{"Folding door", "Pull door", "Sliding door", "Automatic door"},
				Answer:   "Automatic door",
			},
			{
				Question: "What should we ride while running the accessibility audit?",
				Options:  []string{"Swivel chair", "Car", "Wheelchair", "Bicycle"},
				Answer:   "Wheelchair",
			},
			{
				Question: "What does a wheelchair user need when transferring to the toilet?",
				Options:  []string{"Grab bar", "Cane", "Footrest", "Crutches"},
				Answer:   "Grab bar",
			},
			{
				Question: "What do we use to measure the restroom?",
				Options:  []string{"Tape measure", "Wheelchair", "Selfie stick", "Backpack"},
				Answer:   "Tape measure",
			},
			{
				Question: "What is the minimum side length of an accessible restroom?",
				Options:  []string{"1M", "2M", "1.5M", "3M"},
				Answer:   "1.5M",
			},
			{
				Question: "Who needs the elevator the most?",
				Options:  []string{"Parents", "Homeroom teacher", "Wheelchair user", "Principal"},
				Answer:   "Wheelchair user",
			},
			{
				Question: "Which of these is an obstacle for a wheelchair?",
				Options:  []string{"Ramp", "Stairs", "Elevator", "Automatic door"},
				Answer:   "Stairs",
			},
			{
				Question: "On which floor should the accessible restroom be?",
				Options:  []string{"1st floor", "2nd floor", "3rd floor", "4th floor"},
				Answer:   "1st floor",
			},
			{
				Question: "Which of these does not belong in an accessible restroom?",
				Options:  []string{"Sink", "Toilet", "Grab bar", "Cleaning supplies cabinet"},
				Answer:   "Cleaning supplies cabinet",
			},
			{
				Question: "Who has the hardest time getting around?",
				Options:  []string{"Child", "Elderly person", "Pregnant person", "Wheelchair user"},
				Answer:   "Wheelchair user",
			},
		},
		DiscussionQuestions: []domain.DiscussionQuestion{
			{
				Question: "Why did we do this activity?",
				Reason:   "We checked whether our school's facilities are hard to use from a wheelchair.",
			},
			{
				Question: "What should be fixed in our school's accessible restroom?",
				Reason:   "The pull door was hard to open alone from a wheelchair.",
			},
			{
				Question: "What felt inconvenient when you tried the facilities yourself?",
				Reason:   "The cleaning supplies cabinet was in the way.",
			},
			{
				Question: "What can we do to make a restroom that works for wheelchair users?",
				Reason:   "We can make sure it is not used as a storage room.",
			},
		},
	}
}
