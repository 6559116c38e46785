// Package scraper runs the hashtag poll loop.
//
// A Poller fetches the search results page on a fixed period, skips posts it
// has already seen in this run, extracts the usernames mentioned in new posts
// and, once the run's duration has elapsed, folds them into a tally.Table.
//
//	p := scraper.New(cfg, log)
//	result, err := p.Run(ctx, "#golang", 5*time.Minute, cfg.Poll.Period)
//
// Posts are identified by the source's post id when the markup carries one,
// otherwise by a digest of their text, so a post that is re-rendered between
// polls is still counted once.
//
// The loop is strictly sequential: fetch, parse, extract and sleep never
// overlap. Time is read through the Clock interface so tests can drive the
// loop without sleeping.
package scraper
