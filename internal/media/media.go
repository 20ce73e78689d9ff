// Package media uploads recipe videos and cover images to the media host.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"fresh/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Kind is the resource type of an upload
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// ErrDisabled is returned by the host used when no media credentials are configured
var ErrDisabled = errors.New("media uploads are not configured")

// Asset describes a stored upload
type Asset struct {
	ID        string
	PublicID  string
	URL       string
	Type      string
	CreatedAt time.Time
}

// Host stores media and builds delivery URLs
type Host interface {
	Upload(ctx context.Context, source string, kind Kind) (*Asset, error)
	URL(publicID string, kind Kind) (string, error)
}

// New returns a Cloudinary host, or a disabled host when cfg has no cloud name
func New(cfg config.MediaConfig) (Host, error) {
	if !cfg.Enabled() {
		return Disabled{}, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

// Cloudinary is a Host backed by the Cloudinary upload API
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// Upload sends source (a remote URL, data URI or local path) to Cloudinary.
// Videos are cropped to portrait 1080x1920 with a small padded preview
// generated asynchronously; images are stored as jpg.
func (c *Cloudinary) Upload(ctx context.Context, source string, kind Kind) (*Asset, error) {
	params := uploadParams(c.folder, kind)

	resp, err := c.cld.Upload.Upload(ctx, source, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", kind, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload %s: %s", kind, resp.Error.Message)
	}

	return &Asset{
		ID:        resp.AssetID,
		PublicID:  resp.PublicID,
		URL:       resp.SecureURL,
		Type:      resp.ResourceType,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// URL builds the delivery URL of a stored asset
func (c *Cloudinary) URL(publicID string, kind Kind) (string, error) {
	build := c.cld.Image
	if kind == KindVideo {
		build = c.cld.Video
	}
	asset, err := build(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build url for %s: %w", publicID, err)
	}
	return asset.String()
}

func uploadParams(folder string, kind Kind) uploader.UploadParams {
	if kind == KindVideo {
		eagerAsync := true
		return uploader.UploadParams{
			ResourceType:   string(KindVideo),
			Folder:         path.Join(folder, "videos"),
			Format:         "mp4",
			Transformation: "ar_9:16,c_fill/q_auto/w_1080,h_1920",
			Eager:          "w_300,h_500,c_pad,ac_none",
			EagerAsync:     &eagerAsync,
		}
	}
	return uploader.UploadParams{
		ResourceType:   string(KindImage),
		Folder:         path.Join(folder, "images"),
		Format:         "jpg",
		Transformation: "q_auto",
	}
}

// Disabled rejects uploads and passes stored URLs through unchanged
type Disabled struct{}

// Upload always fails with ErrDisabled
func (Disabled) Upload(context.Context, string, Kind) (*Asset, error) {
	return nil, ErrDisabled
}

// URL returns an empty URL so callers keep the stored one
func (Disabled) URL(string, Kind) (string, error) {
	return "", nil
}
