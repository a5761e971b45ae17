package srs

import (
	"math/rand"
	"time"

	"github.com/wrenhall/tome-api/internal/domain"
)

// DefaultQueueLimit caps the study queue when the caller does not
// provide a limit.
const DefaultQueueLimit = 20

// Candidate pairs a card with the user's review state for it. State is
// nil for cards the user has never reviewed.
type Candidate struct {
	Card  *domain.Card
	State *domain.CardReviewState
}

// SelectDue filters and orders the candidate pool into a study queue.
//
// A candidate is eligible when it has no recorded state or its next
// review date is on or before today. Cards whose due date has passed
// come before never-reviewed cards; order within each group is
// shuffled with the provided random source so cards are not
// re-presented in the same order every session. The result is truncated
// to limit entries (DefaultQueueLimit when limit <= 0).
//
// The eligibility filter is deterministic for a given today and state
// set; only the within-group order varies with rng.
func SelectDue(candidates []Candidate, today time.Time, limit int, rng *rand.Rand) []*domain.Card {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	day := domain.DateOf(today)

	var due, fresh []*domain.Card
	for _, c := range candidates {
		switch {
		case c.Card == nil:
			continue
		case c.State == nil:
			fresh = append(fresh, c.Card)
		case !c.State.NextReviewAt.After(day):
			due = append(due, c.Card)
		}
	}

	rng.Shuffle(len(due), func(i, j int) { due[i], due[j] = due[j], due[i] })
	rng.Shuffle(len(fresh), func(i, j int) { fresh[i], fresh[j] = fresh[j], fresh[i] })

	queue := make([]*domain.Card, 0, len(due)+len(fresh))
	queue = append(queue, due...)
	queue = append(queue, fresh...)

	if len(queue) > limit {
		queue = queue[:limit]
	}

	return queue
}
