package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bianoble/todosync/internal/snapshot"
)

// URLRemote is a todo file served over HTTP(S): GET to pull, PUT to push.
type URLRemote struct {
	Client  HTTPClient
	URL     string
	MaxSize int64         // max body size in bytes (0 = no limit)
	Timeout time.Duration // per-request timeout (0 = no extra timeout beyond context)

	mu       sync.Mutex
	lastETag string
}

func (u *URLRemote) Name() string { return u.URL }

func (u *URLRemote) client() HTTPClient {
	if u.Client == nil {
		return DefaultHTTPClient{}
	}
	return u.Client
}

func (u *URLRemote) Pull(ctx context.Context) (*Snapshot, error) {
	if u.URL == "" {
		return nil, &Error{Remote: "url", Operation: "pull", Err: fmt.Errorf("url is required")}
	}
	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, &Error{Remote: u.URL, Operation: "pull", Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := u.client().Do(req)
	if err != nil {
		return nil, &Error{Remote: u.URL, Operation: "pull", Err: fmt.Errorf("fetching %s: %w", u.URL, err), Hint: "check network connectivity and URL"}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		u.setETag("")
		return &Snapshot{Hash: snapshot.ComputeHash(nil)}, nil
	default:
		return nil, &Error{
			Remote:    u.URL,
			Operation: "pull",
			Err:       fmt.Errorf("HTTP %d from %s", resp.StatusCode, u.URL),
			Hint:      "check that the URL is accessible and serves the todo list",
		}
	}

	var reader io.Reader = resp.Body
	if u.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, u.MaxSize+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, &Error{Remote: u.URL, Operation: "pull", Err: fmt.Errorf("reading response: %w", err)}
	}

	if u.MaxSize > 0 && int64(len(content)) > u.MaxSize {
		return nil, &Error{
			Remote:    u.URL,
			Operation: "pull",
			Err:       fmt.Errorf("file exceeds max size %d bytes", u.MaxSize),
			Hint:      "increase remote.max_size or archive completed tasks",
		}
	}

	etag := resp.Header.Get("ETag")
	u.setETag(etag)

	return &Snapshot{
		Content: content,
		Hash:    snapshot.ComputeHash(content),
		ETag:    etag,
		Exists:  true,
	}, nil
}

// Push uploads content with PUT. When the last pull returned an ETag the
// request is conditional on it, and a 412 means the remote moved since.
func (u *URLRemote) Push(ctx context.Context, content []byte) error {
	if u.URL == "" {
		return &Error{Remote: "url", Operation: "push", Err: fmt.Errorf("url is required")}
	}
	if u.MaxSize > 0 && int64(len(content)) > u.MaxSize {
		return &Error{
			Remote:    u.URL,
			Operation: "push",
			Err:       fmt.Errorf("content exceeds max size %d bytes", u.MaxSize),
			Hint:      "increase remote.max_size or archive completed tasks",
		}
	}
	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.URL, bytes.NewReader(content))
	if err != nil {
		return &Error{Remote: u.URL, Operation: "push", Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if etag := u.etag(); etag != "" {
		req.Header.Set("If-Match", etag)
	}

	resp, err := u.client().Do(req)
	if err != nil {
		return &Error{Remote: u.URL, Operation: "push", Err: fmt.Errorf("uploading to %s: %w", u.URL, err), Hint: "check network connectivity and URL"}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return &Error{
			Remote:    u.URL,
			Operation: "push",
			Err:       fmt.Errorf("HTTP %d from %s", resp.StatusCode, u.URL),
			Hint:      "the remote list changed during the sync — run 'todosync sync' again",
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{
			Remote:    u.URL,
			Operation: "push",
			Err:       fmt.Errorf("HTTP %d from %s", resp.StatusCode, u.URL),
			Hint:      "check that the server accepts PUT requests",
		}
	}

	u.setETag(resp.Header.Get("ETag"))
	return nil
}

func (u *URLRemote) etag() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastETag
}

func (u *URLRemote) setETag(etag string) {
	u.mu.Lock()
	u.lastETag = etag
	u.mu.Unlock()
}
