package mentions

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tagtally/pkg/config"
)

func newTestExtractor() *Extractor {
	return NewExtractor(config.DefaultConfig().Source)
}

func loadPage(t *testing.T) []byte {
	t.Helper()
	page, err := os.ReadFile("testdata/search_page.html")
	require.NoError(t, err)
	return page
}

func TestPosts(t *testing.T) {
	e := newTestExtractor()

	posts, err := e.Posts(loadPage(t))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "1001", posts[0].ID)
	assert.Equal(t, "1002", posts[1].ID)
	assert.True(t, strings.HasPrefix(posts[2].ID, "sha256:"), "fallback id, got %s", posts[2].ID)

	assert.Equal(t, "Shipping with @alice and @bob #golang", posts[0].Text)
	assert.NotNil(t, posts[0].Node)
}

func TestPostsStableAcrossLoads(t *testing.T) {
	e := newTestExtractor()
	page := loadPage(t)

	first, err := e.Posts(page)
	require.NoError(t, err)
	second, err := e.Posts(page)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.NotSame(t, first[i].Node, second[i].Node)
	}
}

func TestPostsToleratesMalformedMarkup(t *testing.T) {
	e := newTestExtractor()

	posts, err := e.Posts([]byte(`<div><p class="tweet-text">hi <a class="twitter-atreply">@dan</p><p class="tweet-text"`))
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	assert.Equal(t, []string{"dan"}, e.Mentions(&posts[0]))

	posts, err = e.Posts(nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestMentions(t *testing.T) {
	e := newTestExtractor()

	posts, err := e.Posts(loadPage(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, e.Mentions(&posts[0]))
	assert.Equal(t, []string{}, e.Mentions(&posts[1]))
	assert.Equal(t, []string{"Carol_99"}, e.Mentions(&posts[2]))
}

func TestMentionsInFragment(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "document order with repeats",
			fragment: `<p><a class="twitter-atreply">@alice</a> <a class="twitter-atreply">@bob</a> <a class="twitter-atreply">@alice</a></p>`,
			want:     []string{"alice", "bob", "alice"},
		},
		{
			name:     "empty fragment",
			fragment: "",
			want:     []string{},
		},
		{
			name:     "whitespace fragment",
			fragment: "   \n",
			want:     []string{},
		},
		{
			name:     "no mention links",
			fragment: `<p>plain <a class="twitter-hashtag">#go</a></p>`,
			want:     []string{},
		},
		{
			name:     "nested markup and case preserved",
			fragment: `<a class="twitter-atreply pretty-link"><s>@</s><b>GoLang</b></a>`,
			want:     []string{"GoLang"},
		},
		{
			name:     "empty mention skipped",
			fragment: `<a class="twitter-atreply">@ </a><a class="twitter-atreply">@eve</a>`,
			want:     []string{"eve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.MentionsInFragment(tt.fragment))
		})
	}
}

func TestMentionsNilPost(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, []string{}, e.Mentions(nil))
	assert.Equal(t, []string{}, e.Mentions(&Post{}))
}

func TestCustomSelectors(t *testing.T) {
	e := &Extractor{
		PostSelector:    "article.post",
		MentionSelector: "span.user",
		IDAttribute:     "data-id",
	}
	page := []byte(`<article class="post" data-id="x1"><span class="user">@zoe</span></article>
<article class="post"><span class="user">yan</span></article>`)

	posts, err := e.Posts(page)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "x1", posts[0].ID)
	assert.Equal(t, []string{"zoe"}, e.Mentions(&posts[0]))
	assert.Equal(t, []string{"yan"}, e.Mentions(&posts[1]))
}

func TestFallbackIDFromText(t *testing.T) {
	e := &Extractor{PostSelector: "p", MentionSelector: "a"}

	a := e.PostFromFragment("<p>same   text</p>")
	b := e.PostFromFragment("<p>same text</p>")
	c := e.PostFromFragment("<p>other text</p>")

	require.NotNil(t, a)
	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Nil(t, e.PostFromFragment(""))
}

func TestUsername(t *testing.T) {
	assert.Equal(t, "alice", Username(" @alice "))
	assert.Equal(t, "alice", Username("alice"))
	assert.Equal(t, "", Username("@"))
	assert.Equal(t, "@x", Username("@@x"))
}
