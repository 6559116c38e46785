package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"tagtally/pkg/config"
	"tagtally/pkg/report"
	"tagtally/pkg/scraper"
)

func ExamplePoller_Run() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div data-tweet-id="1"><p class="tweet-text">hi
			<a class="twitter-atreply">@alice</a> <a class="twitter-atreply">@bob</a>
			<a class="twitter-atreply">@alice</a></p></div>`)
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Source.SearchURL = server.URL + "/search?q=%23" + config.HashtagPlaceholder

	// A duration shorter than the period gives a single poll
	result, err := scraper.New(cfg, nil).Run(context.Background(), "#golang", time.Millisecond, 10*time.Millisecond)
	if err != nil {
		fmt.Println("run failed:", err)
		return
	}

	fmt.Println(report.Summary(result.Mentions))
	// Output:
	// Results:
	// alice: 2
	// bob: 1
}
