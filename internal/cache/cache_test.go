package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobboard-engine/internal/domain"
)

func TestPageCache_PutReplacesWholesale(t *testing.T) {
	t.Parallel()

	pc := New(time.Minute)

	pc.Put("hackernews", []domain.JobPosting{{Title: "A"}, {Title: "B"}})
	pc.Put("hackernews", []domain.JobPosting{{Title: "C"}})

	got, ok := pc.Get("hackernews")
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "C", got[0].Title)
}

func TestPageCache_MissAndExpiry(t *testing.T) {
	t.Parallel()

	pc := New(50 * time.Millisecond)

	_, ok := pc.Get("hnjobs")
	require.False(t, ok)

	pc.Put("hnjobs", []domain.JobPosting{{Title: "X"}})
	_, ok = pc.Get("hnjobs")
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)
	_, ok = pc.Get("hnjobs")
	require.False(t, ok)
}
