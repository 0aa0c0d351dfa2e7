package git

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

// HistoryInfo summarizes a checkout's commit history. Each field degrades to
// its default independently when its query fails.
type HistoryInfo struct {
	CommitCount  int        // commits reachable from HEAD; 0 when unknown
	Contributors int        // distinct authors across all refs; at least 1
	LastCommit   *time.Time // committer time of HEAD; nil when unknown
}

// DefaultHistory is the result for a checkout whose history cannot be read at all.
func DefaultHistory() HistoryInfo {
	return HistoryInfo{CommitCount: 0, Contributors: 1}
}

// History runs three independent history queries against the repository at path.
func History(path string) HistoryInfo {
	info := DefaultHistory()

	repo, err := git.PlainOpen(path)
	if err != nil {
		slog.Debug("History unavailable", logfields.Path(path), logfields.Error(err))
		return info
	}

	if n, err := commitCount(repo); err != nil {
		slog.Debug("Commit count query failed", logfields.Path(path), logfields.Error(err))
	} else {
		info.CommitCount = n
	}

	if n, err := contributorCount(repo); err != nil {
		slog.Debug("Contributor query failed", logfields.Path(path), logfields.Error(err))
	} else if n > 0 {
		info.Contributors = n
	}

	if ts, err := lastCommitTime(repo); err != nil {
		slog.Debug("Last commit query failed", logfields.Path(path), logfields.Error(err))
	} else {
		info.LastCommit = &ts
	}

	return info
}

// commitCount counts commits reachable from HEAD. A shallow checkout stops at
// its boundary, which surfaces as an iteration error after some commits have
// been seen; the partial count is kept.
func commitCount(repo *git.Repository) (int, error) {
	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	err = iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil && count == 0 {
		return 0, err
	}
	return count, nil
}

func contributorCount(repo *git.Repository) (int, error) {
	iter, err := repo.Log(&git.LogOptions{All: true})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	authors := map[string]struct{}{}
	err = iter.ForEach(func(c *object.Commit) error {
		key := strings.ToLower(strings.TrimSpace(c.Author.Email))
		if key == "" {
			key = strings.TrimSpace(c.Author.Name)
		}
		authors[key] = struct{}{}
		return nil
	})
	if err != nil && len(authors) == 0 {
		return 0, err
	}
	return len(authors), nil
}

func lastCommitTime(repo *git.Repository) (time.Time, error) {
	ref, err := repo.Head()
	if err != nil {
		return time.Time{}, err
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return time.Time{}, err
	}
	return commit.Committer.When, nil
}
