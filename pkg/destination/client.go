package destination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
)

const (
	UploadMultipart = "multipart"
	UploadRaw       = "raw"

	postsPath         = "/api/posts"
	uploadPath        = "/api/assets/upload"
	publicUploadPath  = "/api/assets/upload/public"
	defaultImageName  = "news-image.jpg"
	credentialsHeader = "Cookie"
)

// Image is the payload handed to UploadAsset.
type Image struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Options configures a destination Client.
type Options struct {
	BaseURL      string
	BotCookie    string
	UploadMode   string
	PublicUpload bool
}

// Client talks to the destination application's asset and post endpoints with the bot credential.
type Client struct {
	http         httpclient.Client
	baseURL      string
	cookie       string
	uploadMode   string
	publicUpload bool
}

// NewClient validates opts and returns a Client.
func NewClient(client httpclient.Client, opts Options) (*Client, error) {
	if client == nil {
		return nil, errors.New("destination http client is nil")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("destination base url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse destination base url: %w", err)
	}
	if strings.TrimSpace(opts.BotCookie) == "" {
		return nil, errors.New("destination bot credential is empty")
	}

	mode := strings.ToLower(strings.TrimSpace(opts.UploadMode))
	switch mode {
	case "":
		mode = UploadMultipart
	case UploadMultipart, UploadRaw:
	default:
		return nil, fmt.Errorf("unsupported upload mode %q", opts.UploadMode)
	}

	return &Client{
		http:         client,
		baseURL:      base,
		cookie:       opts.BotCookie,
		uploadMode:   mode,
		publicUpload: opts.PublicUpload,
	}, nil
}

type uploadResponse struct {
	AssetID string `json:"assetId"`
}

type postResponse struct {
	PostID string `json:"postId"`
}

type primaryPostBody struct {
	Text   string   `json:"text"`
	Assets []string `json:"assets"`
}

type replyPostBody struct {
	Text      string `json:"text"`
	ReplyToID string `json:"replyToId"`
}

// UploadEndpoint returns the asset upload URL for the configured variant.
func (c *Client) UploadEndpoint() string {
	if c.publicUpload {
		return c.baseURL + publicUploadPath
	}
	return c.baseURL + uploadPath
}

// UploadAsset stores img in the destination asset store and returns its asset id.
func (c *Client) UploadAsset(ctx context.Context, img Image, alt string) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.New("upload asset: empty image")
	}
	name := img.FileName
	if name == "" {
		name = defaultImageName
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}

	var (
		resp httpclient.Response
		err  error
	)
	switch c.uploadMode {
	case UploadRaw:
		endpoint := c.UploadEndpoint()
		if alt != "" {
			endpoint += "?" + url.Values{"alt": {alt}}.Encode()
		}
		headers := c.headers()
		headers["Content-Type"] = contentType
		resp, err = c.http.Post(ctx, endpoint, headers, img.Data)
	default:
		resp, err = c.http.PostMultipart(ctx, c.UploadEndpoint(), c.headers(),
			map[string]string{"alt": alt},
			[]httpclient.FormFile{{Param: "file", FileName: name, ContentType: contentType, Data: img.Data}})
	}
	if err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}
	if !httpclient.IsSuccess(resp) {
		return "", newAPIError("upload asset", resp)
	}

	var out uploadResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("upload asset: decode response: %w", err)
	}
	if strings.TrimSpace(out.AssetID) == "" {
		return "", errors.New("upload asset: response has no assetId")
	}
	return out.AssetID, nil
}

// CreatePost creates a top-level post. assets may be empty but is always sent as a list.
func (c *Client) CreatePost(ctx context.Context, text string, assets []string) (string, error) {
	if assets == nil {
		assets = []string{}
	}
	return c.createPost(ctx, "create post", primaryPostBody{Text: text, Assets: assets})
}

// CreateReply creates a post threaded under replyToID.
func (c *Client) CreateReply(ctx context.Context, text, replyToID string) (string, error) {
	if strings.TrimSpace(replyToID) == "" {
		return "", errors.New("create reply: replyToId is empty")
	}
	return c.createPost(ctx, "create reply", replyPostBody{Text: text, ReplyToID: replyToID})
}

func (c *Client) createPost(ctx context.Context, op string, body any) (string, error) {
	headers := c.headers()
	headers["Content-Type"] = "application/json"

	resp, err := c.http.Post(ctx, c.baseURL+postsPath, headers, body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !httpclient.IsSuccess(resp) {
		return "", newAPIError(op, resp)
	}

	var out postResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if strings.TrimSpace(out.PostID) == "" {
		return "", fmt.Errorf("%s: response has no postId", op)
	}
	return out.PostID, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{credentialsHeader: c.cookie}
}
