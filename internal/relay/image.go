package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/internal/logger"
	"github.com/samvad-hq/samvad-headline-relay/internal/metrics"
	"github.com/samvad-hq/samvad-headline-relay/pkg/destination"
	"github.com/samvad-hq/samvad-headline-relay/pkg/httpclient"
	"github.com/samvad-hq/samvad-headline-relay/pkg/imaging"
)

const maxImageBytes = 10 << 20 // 10 MiB

// AssetUploader stores an image in the destination asset store.
type AssetUploader interface {
	UploadAsset(ctx context.Context, img destination.Image, alt string) (string, error)
}

// Transformer rewrites fetched image bytes before upload.
type Transformer func(data []byte) (imaging.Result, error)

// ResizeTransformer bounds images to a maxDim square and re-encodes them as JPEG.
func ResizeTransformer(maxDim, quality int) Transformer {
	return func(data []byte) (imaging.Result, error) {
		return imaging.Fit(data, imaging.Options{MaxDimension: maxDim, Quality: quality})
	}
}

// ImageRelay moves an article image from the provider's host into the destination asset store.
type ImageRelay struct {
	http      httpclient.Client
	uploader  AssetUploader
	transform Transformer
	log       logger.Logger
}

// ImageRelayOption tweaks an ImageRelay.
type ImageRelayOption func(*ImageRelay)

// WithTransformer enables a transform step between fetch and upload.
func WithTransformer(t Transformer) ImageRelayOption {
	return func(r *ImageRelay) { r.transform = t }
}

// NewImageRelay wires the image fetcher and asset uploader.
func NewImageRelay(client httpclient.Client, uploader AssetUploader, log logger.Logger, opts ...ImageRelayOption) (*ImageRelay, error) {
	if client == nil {
		return nil, errors.New("image relay http client is nil")
	}
	if uploader == nil {
		return nil, errors.New("image relay uploader is nil")
	}
	r := &ImageRelay{
		http:     client,
		uploader: uploader,
		log:      logger.Ensure(log),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Relay returns the asset id for art's image, or "" when the article has no image or the
// image could not be fetched. Only an upload failure is returned as an error.
func (r *ImageRelay) Relay(ctx context.Context, art domain.Article) (string, error) {
	if !art.HasImage() {
		return "", nil
	}

	data, contentType, err := r.fetch(ctx, art.ImageURL)
	if err != nil {
		r.log.WarnObj("image fetch failed, posting text only", "image_fetch_soft_failure", map[string]any{
			"provider_id": art.ProviderID,
			"image_url":   art.ImageURL,
			"error":       err.Error(),
		})
		metrics.RecordImageFetchSoftFailure(art.ProviderID)
		return "", nil
	}

	img := destination.Image{Data: data, ContentType: contentType}
	if r.transform != nil {
		res, err := r.transform(data)
		if err != nil {
			r.log.WarnObj("image transform failed, uploading original", "image_transform_soft_failure", map[string]any{
				"provider_id": art.ProviderID,
				"image_url":   art.ImageURL,
				"error":       err.Error(),
			})
		} else {
			img = destination.Image{Data: res.Data, ContentType: res.ContentType}
		}
	}

	assetID, err := r.uploader.UploadAsset(ctx, img, PlainText(art.Title))
	if err != nil {
		return "", err
	}

	r.log.DebugObj("image uploaded", "image_upload", map[string]any{
		"provider_id": art.ProviderID,
		"asset_id":    assetID,
		"bytes":       len(img.Data),
	})
	return assetID, nil
}

func (r *ImageRelay) fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	resp, err := r.http.Get(ctx, imageURL, map[string]string{"Accept": "image/*"})
	if err != nil {
		return nil, "", fmt.Errorf("http fetch: %w", err)
	}
	if !httpclient.IsSuccess(resp) {
		return nil, "", fmt.Errorf("image fetch status %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, "", errors.New("image body is empty")
	}
	if len(body) > maxImageBytes {
		return nil, "", fmt.Errorf("image is %d bytes, limit %d", len(body), maxImageBytes)
	}

	contentType := http.DetectContentType(body)
	if !strings.HasPrefix(contentType, "image/") {
		contentType = imaging.ContentTypeJPEG
	}
	return body, contentType, nil
}
