package imagehost

import (
	"context"
	"errors"
	"fmt"

	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadAPI - методы cloudinary uploader, которые нужны хосту
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryHost загружает и удаляет изображения в Cloudinary
type CloudinaryHost struct {
	api uploadAPI
}

var _ infrastructure.ImageHost = (*CloudinaryHost)(nil)

func NewCloudinaryHost(cloudName, apiKey, apiSecret string) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryHost{api: &cld.Upload}, nil
}

// Upload принимает data URI или URL изображения
func (h *CloudinaryHost) Upload(ctx context.Context, file string, opts infrastructure.UploadOptions) (entity.Image, error) {
	params := uploader.UploadParams{Folder: opts.Folder}
	if opts.Width > 0 {
		params.Transformation = fmt.Sprintf("c_scale,w_%d", opts.Width)
	}

	resp, err := h.api.Upload(ctx, file, params)
	if err != nil {
		metrics.ImageHostOperations.WithLabelValues("upload", "failed").Inc()
		return entity.Image{}, fmt.Errorf("failed to upload image: %w", err)
	}

	img, err := imageFromResult(resp)
	if err != nil {
		metrics.ImageHostOperations.WithLabelValues("upload", "failed").Inc()
		return entity.Image{}, err
	}

	metrics.ImageHostOperations.WithLabelValues("upload", "success").Inc()
	return img, nil
}

func (h *CloudinaryHost) Destroy(ctx context.Context, publicID string) error {
	resp, err := h.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		metrics.ImageHostOperations.WithLabelValues("destroy", "failed").Inc()
		return fmt.Errorf("failed to destroy image %s: %w", publicID, err)
	}
	if resp != nil && resp.Error.Message != "" {
		metrics.ImageHostOperations.WithLabelValues("destroy", "failed").Inc()
		return fmt.Errorf("failed to destroy image %s: %s", publicID, resp.Error.Message)
	}

	metrics.ImageHostOperations.WithLabelValues("destroy", "success").Inc()
	return nil
}

// imageFromResult: Cloudinary возвращает ошибки API в теле ответа, а не через error
func imageFromResult(resp *uploader.UploadResult) (entity.Image, error) {
	if resp == nil {
		return entity.Image{}, errors.New("empty upload response")
	}
	if resp.Error.Message != "" {
		return entity.Image{}, fmt.Errorf("failed to upload image: %s", resp.Error.Message)
	}
	if resp.PublicID == "" || resp.SecureURL == "" {
		return entity.Image{}, errors.New("upload response has no public_id or url")
	}

	return entity.Image{PublicID: resp.PublicID, URL: resp.SecureURL}, nil
}
