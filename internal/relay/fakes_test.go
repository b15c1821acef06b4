package relay

import (
	"context"
	"errors"
	"time"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/pkg/destination"
	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
)

type fakeSource struct {
	art   domain.Article
	ok    bool
	err   error
	since time.Time
	calls int
}

func (f *fakeSource) ProviderID() string { return "gnews-jp" }

func (f *fakeSource) Latest(_ context.Context, since time.Time) (domain.Article, bool, error) {
	f.calls++
	f.since = since
	return f.art, f.ok, f.err
}

type postCall struct {
	text      string
	assets    []string
	replyToID string
}

type fakePoster struct {
	postErr  error
	replyErr error
	posts    []postCall
	replies  []postCall
}

func (f *fakePoster) CreatePost(_ context.Context, text string, assets []string) (string, error) {
	f.posts = append(f.posts, postCall{text: text, assets: assets})
	if f.postErr != nil {
		return "", f.postErr
	}
	return "post-1", nil
}

func (f *fakePoster) CreateReply(_ context.Context, text, replyToID string) (string, error) {
	f.replies = append(f.replies, postCall{text: text, replyToID: replyToID})
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return "reply-1", nil
}

func (f *fakePoster) calls() int { return len(f.posts) + len(f.replies) }

type fakeUploader struct {
	err    error
	images []destination.Image
	alts   []string
}

func (f *fakeUploader) UploadAsset(_ context.Context, img destination.Image, alt string) (string, error) {
	f.images = append(f.images, img)
	f.alts = append(f.alts, alt)
	if f.err != nil {
		return "", f.err
	}
	return "asset-1", nil
}

type fakeResponse struct {
	status int
	body   []byte
}

func (r fakeResponse) Body() []byte    { return r.body }
func (r fakeResponse) StatusCode() int { return r.status }

type fakeHTTP struct {
	resp fakeResponse
	err  error
	urls []string
}

func (f *fakeHTTP) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeHTTP) Post(context.Context, string, map[string]string, any) (httpclient.Response, error) {
	return nil, errors.New("unexpected POST")
}

func (f *fakeHTTP) PostMultipart(context.Context, string, map[string]string, map[string]string, []httpclient.FormFile) (httpclient.Response, error) {
	return nil, errors.New("unexpected multipart POST")
}

type fakeDeduper struct {
	seen    map[string]bool
	err     error
	markErr error
	marked  map[string]string
}

func (f *fakeDeduper) SeenArticle(id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.seen[id], nil
}

func (f *fakeDeduper) MarkArticle(id, postID string) error {
	if f.marked == nil {
		f.marked = map[string]string{}
	}
	f.marked[id] = postID
	return f.markErr
}
