package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/tinylink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLink(code, target string, createdAt time.Time) *shortener.Link {
	return &shortener.Link{
		Code:      shortener.Code(code),
		TargetURL: target,
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}
}

// testRepositoryContract checks the behavior every shortener.Repository must share.
func testRepositoryContract(t *testing.T, newRepo func(t *testing.T) shortener.Repository) {
	t.Helper()

	ctx := context.Background()
	now := time.Now()

	t.Run("insert then read back", func(t *testing.T) {
		repo := newRepo(t)
		link := newLink("abc123", "https://example.com/page", now)

		require.NoError(t, repo.Insert(ctx, link))

		got, err := repo.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, link.Code, got.Code)
		assert.Equal(t, link.TargetURL, got.TargetURL)
		assert.Equal(t, int64(0), got.TotalClicks)
		assert.Nil(t, got.LastClickedAt)
		assert.True(t, link.CreatedAt.Equal(got.CreatedAt))

		target, err := repo.FindTarget(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", target)
	})

	t.Run("exists reflects inserted codes", func(t *testing.T) {
		repo := newRepo(t)

		exists, err := repo.Exists(ctx, "Exists1")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, repo.Insert(ctx, newLink("Exists1", "https://example.com", now)))

		exists, err = repo.Exists(ctx, "Exists1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("codes are case sensitive", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newLink("CaseAb", "https://upper.example.com", now)))

		exists, err := repo.Exists(ctx, "caseab")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repo.FindTarget(ctx, "caseab")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("insert of a taken code returns ErrAlreadyExists and keeps the first link", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newLink("dupe01", "https://old.com", now)))

		err := repo.Insert(ctx, newLink("dupe01", "https://new.com", now))

		assert.ErrorIs(t, err, shortener.ErrAlreadyExists)

		target, _ := repo.FindTarget(ctx, "dupe01")
		assert.Equal(t, "https://old.com", target)
	})

	t.Run("lookups of a missing code return ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindTarget(ctx, "nothere")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		got, err := repo.GetByCode(ctx, "nothere")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		assert.ErrorIs(t, repo.RecordClick(ctx, "nothere", now), shortener.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "nothere"), shortener.ErrNotFound)
	})

	t.Run("record click increments and moves last click forward", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newLink("click1", "https://example.com", now)))

		later := now.Add(time.Minute).UTC().Truncate(time.Microsecond)

		require.NoError(t, repo.RecordClick(ctx, "click1", later))
		require.NoError(t, repo.RecordClick(ctx, "click1", now))

		got, err := repo.GetByCode(ctx, "click1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.TotalClicks)
		require.NotNil(t, got.LastClickedAt)
		assert.True(t, later.Equal(*got.LastClickedAt))
	})

	t.Run("concurrent clicks are all counted", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newLink("race01", "https://example.com", now)))

		const clicks = 25

		var wg sync.WaitGroup

		for rep := 0; rep < clicks; rep++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				assert.NoError(t, repo.RecordClick(ctx, "race01", time.Now()))
			}()
		}

		wg.Wait()

		got, err := repo.GetByCode(ctx, "race01")
		require.NoError(t, err)
		assert.Equal(t, int64(clicks), got.TotalClicks)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newLink("first1", "https://one.com", now.Add(-2*time.Hour))))
		require.NoError(t, repo.Insert(ctx, newLink("third3", "https://three.com", now)))
		require.NoError(t, repo.Insert(ctx, newLink("second", "https://two.com", now.Add(-time.Hour))))

		links, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, shortener.Code("third3"), links[0].Code)
		assert.Equal(t, shortener.Code("second"), links[1].Code)
		assert.Equal(t, shortener.Code("first1"), links[2].Code)
	})

	t.Run("delete removes the link for good", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newLink("gone01", "https://example.com", now)))

		require.NoError(t, repo.Delete(ctx, "gone01"))

		_, err := repo.FindTarget(ctx, "gone01")
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		links, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
