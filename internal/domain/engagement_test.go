package domain

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		current     Status
		requested   Status
		wantStatus  Status
		wantLike    int
		wantDislike int
	}{
		{
			name:       "first like from neutral",
			current:    StatusNeutral,
			requested:  StatusLiked,
			wantStatus: StatusLiked,
			wantLike:   1,
		},
		{
			name:        "first dislike from neutral",
			current:     StatusNeutral,
			requested:   StatusDisliked,
			wantStatus:  StatusDisliked,
			wantDislike: 1,
		},
		{
			name:       "like while liked toggles off",
			current:    StatusLiked,
			requested:  StatusLiked,
			wantStatus: StatusNeutral,
			wantLike:   -1,
		},
		{
			name:        "dislike while disliked toggles off",
			current:     StatusDisliked,
			requested:   StatusDisliked,
			wantStatus:  StatusNeutral,
			wantDislike: -1,
		},
		{
			name:        "like while disliked switches",
			current:     StatusDisliked,
			requested:   StatusLiked,
			wantStatus:  StatusLiked,
			wantLike:    1,
			wantDislike: -1,
		},
		{
			name:        "dislike while liked switches",
			current:     StatusLiked,
			requested:   StatusDisliked,
			wantStatus:  StatusDisliked,
			wantLike:    -1,
			wantDislike: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, delta := Decide(tt.current, tt.requested)
			assert.Equal(t, tt.wantStatus, next)
			assert.Equal(t, tt.wantLike, delta.Like)
			assert.Equal(t, tt.wantDislike, delta.Dislike)
		})
	}
}

func TestDecideReplayIsToggle(t *testing.T) {
	// Applying the same event twice must behave like a double-click:
	// like -> {1,0}, like again -> {0,0}. Replay is absorbed by the toggle
	// rule, never double-counted.
	status := StatusNeutral
	like, dislike := 0, 0

	status, d := Decide(status, StatusLiked)
	like += d.Like
	dislike += d.Dislike
	require.Equal(t, StatusLiked, status)
	require.Equal(t, 1, like)
	require.Equal(t, 0, dislike)

	status, d = Decide(status, StatusLiked)
	like += d.Like
	dislike += d.Dislike
	require.Equal(t, StatusNeutral, status)
	require.Equal(t, 0, like)
	require.Equal(t, 0, dislike)
}

func TestDecideStaleReplayReflipsButStaysConsistent(t *testing.T) {
	// Two users on one review, with a stale duplicate of A's first event
	// arriving after A already toggled off. The replay re-flips A's status
	// to liked — a known limitation without per-event ordering — but every
	// step keeps the counters equal to a census of the stored statuses.
	like, dislike := 0, 0
	apply := func(current, requested Status) Status {
		next, d := Decide(current, requested)
		like += d.Like
		dislike += d.Dislike
		return next
	}

	// A likes.
	userA := apply(StatusNeutral, StatusLiked)
	require.Equal(t, StatusLiked, userA)
	require.Equal(t, 1, like)
	require.Equal(t, 0, dislike)

	// B dislikes.
	userB := apply(StatusNeutral, StatusDisliked)
	require.Equal(t, StatusDisliked, userB)
	require.Equal(t, 1, like)
	require.Equal(t, 1, dislike)

	// A toggles the like off.
	userA = apply(userA, StatusLiked)
	require.Equal(t, StatusNeutral, userA)
	require.Equal(t, 0, like)
	require.Equal(t, 1, dislike)

	// A's first "like" is redelivered late: from neutral it reads as a
	// fresh like, so A flips back on. Wrong status, consistent counters.
	userA = apply(userA, StatusLiked)
	assert.Equal(t, StatusLiked, userA)
	assert.Equal(t, 1, like)
	assert.Equal(t, 1, dislike)
}

func TestDecideStatusAndCountersStayConsistent(t *testing.T) {
	// For any action sequence by one user on one review, the counter
	// contribution must equal exactly the final status: at most one of
	// like/dislike set, never both, never negative.
	rng := rand.New(rand.NewSource(7))
	actions := []Status{StatusLiked, StatusDisliked}

	for run := 0; run < 100; run++ {
		status := StatusNeutral
		like, dislike := 0, 0

		for i := 0; i < 50; i++ {
			requested := actions[rng.Intn(len(actions))]
			var d Delta
			status, d = Decide(status, requested)
			like += d.Like
			dislike += d.Dislike
		}

		switch status {
		case StatusLiked:
			assert.Equal(t, 1, like)
			assert.Equal(t, 0, dislike)
		case StatusDisliked:
			assert.Equal(t, 0, like)
			assert.Equal(t, 1, dislike)
		case StatusNeutral:
			assert.Equal(t, 0, like)
			assert.Equal(t, 0, dislike)
		}
	}
}

// TestConcurrentReactionsNeverGoNegative drives many goroutines through the
// serialized read-decide-write cycle the counter updater uses: each mutation
// reads fresh state under a per-review lock, so any interleaving converges to
// counters consistent with the stored statuses.
func TestConcurrentReactionsNeverGoNegative(t *testing.T) {
	const (
		users      = 16
		actionsPer = 40
	)

	type review struct {
		mu       sync.Mutex
		like     int
		dislike  int
		statuses map[int]Status
	}

	rv := &review{statuses: make(map[int]Status)}

	apply := func(userID int, requested Status) {
		rv.mu.Lock()
		defer rv.mu.Unlock()

		current, ok := rv.statuses[userID]
		if !ok {
			current = StatusNeutral
		}
		next, d := Decide(current, requested)
		rv.statuses[userID] = next
		rv.like += d.Like
		rv.dislike += d.Dislike

		if rv.like < 0 || rv.dislike < 0 {
			t.Errorf("counter went negative: like=%d dislike=%d", rv.like, rv.dislike)
		}
	}

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(userID)))
			for i := 0; i < actionsPer; i++ {
				if rng.Intn(2) == 0 {
					apply(userID, StatusLiked)
				} else {
					apply(userID, StatusDisliked)
				}
			}
		}(u)
	}
	wg.Wait()

	wantLike, wantDislike := 0, 0
	for _, s := range rv.statuses {
		switch s {
		case StatusLiked:
			wantLike++
		case StatusDisliked:
			wantDislike++
		}
	}

	require.Equal(t, wantLike, rv.like)
	require.Equal(t, wantDislike, rv.dislike)
	require.GreaterOrEqual(t, rv.like, 0)
	require.GreaterOrEqual(t, rv.dislike, 0)
}

func TestParseRequestedStatus(t *testing.T) {
	got, err := ParseRequestedStatus("like")
	require.NoError(t, err)
	assert.Equal(t, StatusLiked, got)

	got, err = ParseRequestedStatus("dislike")
	require.NoError(t, err)
	assert.Equal(t, StatusDisliked, got)

	_, err = ParseRequestedStatus("love")
	assert.Error(t, err)

	_, err = ParseRequestedStatus("")
	assert.Error(t, err)
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(StatusNeutral))
	assert.True(t, IsValidStatus(StatusLiked))
	assert.True(t, IsValidStatus(StatusDisliked))
	assert.False(t, IsValidStatus("like"))
	assert.False(t, IsValidStatus(""))
}
