package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tagtally/pkg/config"
	errs "tagtally/pkg/errors"
	"tagtally/pkg/logger"
	"tagtally/pkg/mentions"
	"tagtally/pkg/tally"
	"tagtally/pkg/twitter"
)

// Poller runs the fetch, dedupe, extract and accumulate loop for one hashtag
type Poller struct {
	fetcher      PageFetcher
	extractor    *mentions.Extractor
	clock        Clock
	logger       logger.Logger
	searchURL    string
	abortOnError bool
	onPoll       func(PollStatus)
}

// PollStatus describes the run after a single poll
type PollStatus struct {
	Poll        int
	NewPosts    int
	Mentions    int
	FailedPolls int
	Elapsed     time.Duration
	Err         error
}

// Options configures a Poller
type Options struct {
	// SearchURL is the page template containing config.HashtagPlaceholder
	SearchURL string
	// AbortOnError stops the run at the first failed poll instead of
	// skipping it.
	AbortOnError bool
	// Clock defaults to SystemClock
	Clock Clock
}

// Result is the outcome of a run. Mentions is always non-nil, including
// when Run returns an error.
type Result struct {
	Mentions     *tally.Table
	Polls        int
	FailedPolls  int
	PostsSeen    int
	MentionCount int
	Elapsed      time.Duration
}

// New creates a Poller wired to the search page client described by cfg
func New(cfg *config.Config, log logger.Logger) *Poller {
	if log == nil {
		log = logger.NewNopLogger()
	}
	client := twitter.NewClient(twitter.Options{
		Timeout:   cfg.Source.Timeout,
		UserAgent: cfg.Source.UserAgent,
		Headers:   cfg.Source.Headers,
	}, log.WithField("component", "fetcher"))

	return NewPoller(client, mentions.NewExtractor(cfg.Source), Options{
		SearchURL:    cfg.Source.SearchURL,
		AbortOnError: cfg.Poll.AbortOnError,
	}, log)
}

// SetProgressFunc registers fn to be called after every poll
func (p *Poller) SetProgressFunc(fn func(PollStatus)) {
	p.onPoll = fn
}

// NewPoller creates a Poller from its collaborators
func NewPoller(fetcher PageFetcher, extractor *mentions.Extractor, opts Options, log logger.Logger) *Poller {
	if log == nil {
		log = logger.NewNopLogger()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Poller{
		fetcher:      fetcher,
		extractor:    extractor,
		clock:        clock,
		logger:       log,
		searchURL:    opts.SearchURL,
		abortOnError: opts.AbortOnError,
	}
}

// seenSet records the ids of posts already processed in a run
type seenSet struct {
	ids   map[string]struct{}
	order []string
}

func newSeenSet() *seenSet {
	return &seenSet{ids: make(map[string]struct{})}
}

// add reports whether id was new
func (s *seenSet) add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *seenSet) len() int {
	return len(s.order)
}

// Run polls the search page for hashtag every period until duration has
// elapsed since the start. The deadline is checked before each poll, so at
// least one poll always runs and none starts after the deadline.
//
// A failed poll is logged and skipped unless the Poller aborts on error, in
// which case Run returns the mentions gathered so far with the error. A
// cancelled ctx also ends the run early with a partial result.
func (p *Poller) Run(ctx context.Context, hashtag string, duration, period time.Duration) (*Result, error) {
	tag := twitter.NormalizeHashtag(hashtag)
	if tag == "" {
		return nil, errors.New("hashtag is required")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", duration)
	}
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %s", period)
	}

	pageURL := twitter.SearchURL(p.searchURL, tag)
	log := p.logger.WithField("hashtag", tag)
	log.InfoWithFields("Polling started", map[string]interface{}{
		"url":      pageURL,
		"duration": duration,
		"period":   period,
	})

	seen := newSeenSet()
	var found []string
	result := &Result{}

	finish := func(start time.Time, runErr error) (*Result, error) {
		log.DebugWithFields("Raw results", map[string]interface{}{
			"mentions": found,
		})
		result.Mentions = tally.FromMentions(found)
		result.PostsSeen = seen.len()
		result.MentionCount = len(found)
		result.Elapsed = p.clock.Now().Sub(start)
		log.InfoWithFields("Polling finished", map[string]interface{}{
			"polls":        result.Polls,
			"failed_polls": result.FailedPolls,
			"posts":        result.PostsSeen,
			"mentions":     result.MentionCount,
			"users":        result.Mentions.Len(),
			"elapsed":      result.Elapsed,
		})
		return result, runErr
	}

	start := p.clock.Now()
	for p.clock.Now().Sub(start) < duration {
		if err := ctx.Err(); err != nil {
			return finish(start, err)
		}

		pollStart := p.clock.Now()
		result.Polls++

		newPosts, newMentions, err := p.poll(ctx, pageURL, seen)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return finish(start, ctxErr)
			}
			result.FailedPolls++
			log.WithError(err).WarnWithFields("Poll failed", map[string]interface{}{
				"poll":       result.Polls,
				"error_type": string(errs.TypeOf(err)),
			})
			if p.abortOnError {
				return finish(start, fmt.Errorf("poll %d: %w", result.Polls, err))
			}
		} else {
			found = append(found, newMentions...)
			logger.LogPollProgress(log, result.Polls, newPosts, len(newMentions), p.clock.Now().Sub(pollStart))
		}
		if p.onPoll != nil {
			p.onPoll(PollStatus{
				Poll:        result.Polls,
				NewPosts:    newPosts,
				Mentions:    len(found),
				FailedPolls: result.FailedPolls,
				Elapsed:     p.clock.Now().Sub(start),
				Err:         err,
			})
		}

		sleep := period - p.clock.Now().Sub(pollStart)
		if sleep < 0 {
			sleep = 0
		}
		log.DebugWithFields("Sleeping until next poll", map[string]interface{}{
			"sleep": sleep,
		})
		if err := p.clock.Sleep(ctx, sleep); err != nil {
			return finish(start, err)
		}
	}

	return finish(start, nil)
}

// poll fetches the page once and returns the number of unseen posts and the
// mentions they contain, in document order.
func (p *Poller) poll(ctx context.Context, pageURL string, seen *seenSet) (int, []string, error) {
	page, err := p.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return 0, nil, err
	}

	posts, err := p.extractor.Posts(page)
	if err != nil {
		return 0, nil, errs.Wrap(errs.ErrorTypeParsing, err, "")
	}

	newPosts := 0
	var found []string
	for i := range posts {
		post := &posts[i]
		if !seen.add(post.ID) {
			continue
		}
		newPosts++
		p.logger.DebugWithFields("Adding post", map[string]interface{}{
			"post_id": post.ID,
			"text":    post.Text,
		})
		found = append(found, p.extractor.Mentions(post)...)
	}

	return newPosts, found, nil
}
