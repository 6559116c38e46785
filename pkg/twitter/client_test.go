package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "tagtally/pkg/errors"
	"tagtally/pkg/logger"
)

func TestNormalizeHashtag(t *testing.T) {
	tests := map[string]string{
		"#golang":   "golang",
		"golang":    "golang",
		"  #go  ":   "go",
		"##double":  "#double",
		"":          "",
		"#":         "",
		"#Café2024": "Café2024",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHashtag(in), "input %q", in)
	}
}

func TestSearchURL(t *testing.T) {
	template := "https://twitter.com/search?f=tweets&vertical=default&q=%23{hashtag}&src=typd"

	assert.Equal(t,
		"https://twitter.com/search?f=tweets&vertical=default&q=%23golang&src=typd",
		SearchURL(template, "#golang"))
	assert.Equal(t,
		"https://twitter.com/search?f=tweets&vertical=default&q=%23go+lang%26more&src=typd",
		SearchURL(template, "go lang&more"))
	assert.Equal(t, "http://x/{other}", SearchURL("http://x/{other}", "tag"))
}

func TestFetchPage(t *testing.T) {
	var gotUA, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	client := NewClient(Options{Timeout: 5 * time.Second, UserAgent: "tagtally-test"}, log)

	body, err := client.FetchPage(context.Background(), server.URL+"/search?q=%23golang")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>ok</body></html>", string(body))
	assert.Equal(t, "tagtally-test", gotUA)
	assert.Equal(t, "/search?q=%23golang", gotPath)
	assert.True(t, log.HasMessage("HTTP request completed"))
}

func TestFetchPageSendsConfiguredHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(Options{
		Timeout:   5 * time.Second,
		UserAgent: "tagtally-test",
		Headers: map[string]string{
			"Accept-Language": "en-US",
			"User-Agent":      "ignored",
		},
	}, nil)

	_, err := client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "en-US", got.Get("Accept-Language"))
	assert.Equal(t, "tagtally-test", got.Get("User-Agent"))
}

func TestFetchPageStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		wantType errs.ErrorType
	}{
		{http.StatusNotFound, errs.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errs.ErrorTypeRateLimit},
		{http.StatusBadGateway, errs.ErrorTypeServerError},
		{http.StatusForbidden, errs.ErrorTypeAuth},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(Options{Timeout: 5 * time.Second}, logger.NewNopLogger())
			body, err := client.FetchPage(context.Background(), server.URL)
			require.Error(t, err)
			assert.Nil(t, body)
			assert.True(t, errs.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestFetchPageNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	log := logger.NewTestLogger()
	client := NewClient(Options{Timeout: time.Second}, log)

	_, err := client.FetchPage(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNetwork))
	assert.True(t, log.HasMessage("HTTP request failed"))
}

func TestFetchPageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Options{Timeout: 50 * time.Millisecond}, logger.NewNopLogger())

	start := time.Now()
	_, err := client.FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNetwork))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchPageCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Options{}, nil)
	_, err := client.FetchPage(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
