package narrator

import (
	"context"
	"io"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Options tune a Storyteller.
type Options struct {
	Timeout         time.Duration
	RPS             float64 // <= 0 means unlimited
	CacheSize       int
	NarrateCheckout bool
}

// Storyteller tells stories with a backend and falls back to canned stories
// whenever the backend is missing, slow, refused by the rate limit or failing.
type Storyteller struct {
	backend  Narrator
	fallback *Fallback
	opts     Options
	limiter  *rate.Limiter
	cache    *lru.Cache[string, string]
}

// NewStoryteller wraps backend, which may be nil for offline play.
func NewStoryteller(backend Narrator, fallback *Fallback, opts Options) *Storyteller {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	var cache *lru.Cache[string, string]
	if opts.CacheSize > 0 {
		cache, _ = lru.New[string, string](opts.CacheSize)
	}
	return &Storyteller{
		backend:  backend,
		fallback: fallback,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
		cache:    cache,
	}
}

// Wants reports whether s should be narrated at all.
func (t *Storyteller) Wants(s *Story) bool {
	return s != nil && (!s.IsCheckout() || t.opts.NarrateCheckout)
}

// Tell returns a story for s. It never fails.
func (t *Storyteller) Tell(ctx context.Context, s Story) string {
	if t.backend == nil {
		return t.tellFallback(ctx, s)
	}

	key, err := Prompt(s)
	if err != nil {
		log.Warn().Err(err).Msg("render prompt")
		return t.tellFallback(ctx, s)
	}
	if t.cache != nil {
		if text, ok := t.cache.Get(key); ok {
			return text
		}
	}
	if !t.limiter.Allow() {
		log.Warn().Msg("narration rate limited, using fallback")
		return t.tellFallback(ctx, s)
	}

	ctx, cancel := context.WithTimeout(ctx, t.opts.Timeout)
	defer cancel()
	text, err := t.backend.Narrate(ctx, s)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyStory
	}
	if err != nil {
		log.Warn().Err(err).Str("branch", s.CurrentBranch).Msg("narration failed, using fallback")
		return t.tellFallback(ctx, s)
	}
	if t.cache != nil {
		t.cache.Add(key, text)
	}
	return text
}

func (t *Storyteller) tellFallback(ctx context.Context, s Story) string {
	text, err := t.fallback.Narrate(ctx, s)
	if err != nil {
		log.Warn().Err(err).Msg("fallback story")
		return "Your life moves on, for better or worse."
	}
	return text
}

// Close releases the backend if it holds resources.
func (t *Storyteller) Close() error {
	if c, ok := t.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
