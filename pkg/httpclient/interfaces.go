package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// FormFile is a file part of a multipart request.
type FormFile struct {
	Param       string
	FileName    string
	ContentType string
	Data        []byte
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	// Post sends body as-is when it is a []byte, otherwise encodes it as JSON.
	Post(ctx context.Context, url string, headers map[string]string, body any) (Response, error)
	PostMultipart(ctx context.Context, url string, headers map[string]string, fields map[string]string, files []FormFile) (Response, error)
}

// IsSuccess reports whether resp carries a 2xx status.
func IsSuccess(resp Response) bool {
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code >= 200 && code < 300
}
