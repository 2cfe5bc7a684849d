package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

// Uploads whose header declares a larger canvas are rejected before any
// pixel buffer is allocated.
const (
	MaxImageSide   = 8192
	MaxImagePixels = 40_000_000
)

// Avatars turns an uploaded picture into the two stored avatar sizes.
type Avatars struct {
	store Store
}

func NewAvatars(store Store) *Avatars {
	return &Avatars{store: store}
}

// Stage decodes data, crops it to a centred square, and uploads a small and
// a large rendition. If the second upload fails the first is removed again,
// so on error nothing is left behind. Undecodable or oversized data is a
// validation error.
func (a *Avatars) Stage(ctx context.Context, userID string, data []byte) (models.Avatar, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.Avatar{}, fmt.Errorf("%w: unsupported image", common.ErrorValidation)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return models.Avatar{}, err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Avatar{}, fmt.Errorf("%w: unsupported image", common.ErrorValidation)
	}

	small, err := a.put(ctx, userID, src, format, models.AvatarSmallSize)
	if err != nil {
		return models.Avatar{}, err
	}
	large, err := a.put(ctx, userID, src, format, models.AvatarLargeSize)
	if err != nil {
		return models.Avatar{}, errors.Join(err, a.store.Delete(ctx, small.AssetID))
	}
	return models.Avatar{Small: small, Large: large}, nil
}

// Release deletes the assets referenced by avatar. Images without an asset
// id, such as the default picture, are skipped.
func (a *Avatars) Release(ctx context.Context, avatar models.Avatar) error {
	var errs []error
	for _, id := range avatar.AssetIDs() {
		if err := a.store.Delete(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty image", common.ErrorValidation)
	}
	if w > MaxImageSide || h > MaxImageSide || w*h > MaxImagePixels {
		return fmt.Errorf("%w: image %dx%d exceeds %d pixels per side or %d pixels in total",
			common.ErrorValidation, w, h, MaxImageSide, MaxImagePixels)
	}
	return nil
}

func (a *Avatars) put(ctx context.Context, userID string, src image.Image, format string, size int) (models.AvatarImage, error) {
	body, contentType, ext, err := encode(Thumbnail(src, size), format)
	if err != nil {
		return models.AvatarImage{}, err
	}
	key := fmt.Sprintf("avatars/%s/%d-%s%s", userID, size, uuid.NewString(), ext)
	url, err := a.store.Put(ctx, key, contentType, body)
	if err != nil {
		return models.AvatarImage{}, err
	}
	return models.AvatarImage{URL: url, AssetID: key}, nil
}

// Thumbnail scales the largest centred square of src to size×size.
func Thumbnail(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

func encode(img image.Image, format string) (body []byte, contentType, ext string, err error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, img)
		contentType, ext = "image/png", ".png"
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		contentType, ext = "image/jpeg", ".jpg"
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), contentType, ext, nil
}
