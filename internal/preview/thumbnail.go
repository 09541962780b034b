package preview

import (
	"context"
	"encoding/base64"
	"net/url"

	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/imaging"
)

// ThumbnailSource renders PNG thumbnails as data URIs, or points at an HTTP
// route serving them.
type ThumbnailSource struct {
	width     int
	urlPrefix string
}

func NewThumbnailSource(width int, urlPrefix string) *ThumbnailSource {
	return &ThumbnailSource{width: width, urlPrefix: urlPrefix}
}

func (s *ThumbnailSource) Build(ctx context.Context, f files.File, wantDataURI bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !wantDataURI {
		if _, _, err := imaging.DecodeConfig(f.Content); err != nil {
			return "", err
		}
		return s.urlPrefix + url.PathEscape(f.Name), nil
	}
	thumb, err := imaging.Thumbnail(f.Content, s.width)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(thumb), nil
}

// InfoExtractor describes a file with imaging.Identify.
type InfoExtractor struct{}

func (InfoExtractor) Extract(ctx context.Context, f files.File) ([]imaging.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := imaging.Identify(f.Name, f.Content)
	if err != nil {
		return nil, err
	}
	return []imaging.Info{info}, nil
}
