package storage

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Defaults for where the highscore list lives.
const (
	DefaultNamespace = "highscores"
	DefaultKey       = "scores_v2"
	MaxScores        = 10
)

const separator = ","

// Serialize joins scores with single commas and no trailing separator.
func Serialize(scores []int) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, separator)
}

// Parse reverses Serialize. The empty string is an empty list; any field
// that is not an unsigned decimal fails the whole parse.
func Parse(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	fields := strings.Split(s, separator)
	scores := make([]int, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("storage: highscore field %d: %w", i, err)
		}
		scores = append(scores, int(v))
	}
	return scores, nil
}

// Add appends score, sorts descending and keeps the best limit entries.
// The input slice is not modified.
func Add(scores []int, score, limit int) []int {
	out := append(slices.Clone(scores), score)
	slices.SortStableFunc(out, func(a, b int) int { return b - a })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// KV is the subset of Store the board needs.
type KV interface {
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
}

// Board keeps the top scores in memory and mirrors them to a KV entry.
// It is safe for concurrent use.
type Board struct {
	kv        KV
	namespace string
	key       string
	limit     int
	logger    *log.Logger

	mu     sync.RWMutex
	scores []int
}

// NewBoard returns an empty board. Empty namespace or key fall back to
// the defaults; call Load to read the persisted list.
func NewBoard(kv KV, namespace, key string, logger *log.Logger) *Board {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Board{
		kv:        kv,
		namespace: namespace,
		key:       key,
		limit:     MaxScores,
		logger:    logger,
		scores:    []int{},
	}
}

// Load reads the persisted list. A missing, unreadable or malformed entry
// leaves the board empty. Only the last two are logged.
func (b *Board) Load() {
	scores := []int{}
	raw, err := b.kv.Get(b.namespace, b.key)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		b.logger.Warn("highscores unavailable", "err", err)
	default:
		parsed, perr := Parse(raw)
		if perr != nil {
			b.logger.Warn("discarding malformed highscores", "value", raw, "err", perr)
			break
		}
		scores = parsed
		if len(scores) > b.limit {
			slices.SortStableFunc(scores, func(a, c int) int { return c - a })
			scores = scores[:b.limit]
		}
	}

	b.mu.Lock()
	b.scores = scores
	b.mu.Unlock()
}

// Record adds a finished game's score and persists the list. A write
// failure is logged; the in-memory list is still updated.
func (b *Board) Record(score int) {
	b.mu.Lock()
	b.scores = Add(b.scores, score, b.limit)
	value := Serialize(b.scores)
	b.mu.Unlock()

	if err := b.kv.Set(b.namespace, b.key, value); err != nil {
		b.logger.Error("failed to persist highscores", "score", score, "err", err)
		return
	}
	b.logger.Info("score recorded", "score", score, "top", value)
}

// Top returns a copy of the current list, best first.
func (b *Board) Top() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.scores)
}
