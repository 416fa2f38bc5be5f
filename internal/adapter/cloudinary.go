package adapter

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/utils"
)

const defaultCloudinaryResource = "image"

type cloudinaryMediaHost struct {
	client    *utils.HTTPClient
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	now       func() time.Time
	logger    *logger.Logger
}

type cloudinaryUploadResult struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	URL          string `json:"url"`
	ResourceType string `json:"resource_type"`
}

type cloudinaryDestroyResult struct {
	Result string `json:"result"`
}

// NewCloudinaryMediaHost builds a media host on top of the Cloudinary
// upload API. Requests are signed with the API secret.
func NewCloudinaryMediaHost(cfg config.Cloudinary, logger *logger.Logger) (*cloudinaryMediaHost, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: cloudinary cloud name, api key and secret are required", ErrMediaHostConfig)
	}

	return &cloudinaryMediaHost{
		client:    utils.NewHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout),
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    strings.Trim(cfg.Folder, "/"),
		now:       time.Now,
		logger:    logger,
	}, nil
}

func (c *cloudinaryMediaHost) Upload(ctx context.Context, obj UploadObject) (StoredObject, error) {
	log := logger.FromContext(ctx)

	if obj.Key == "" {
		return StoredObject{}, fmt.Errorf("%w: empty key", ErrInvalidObjectKey)
	}

	params := map[string]string{
		"public_id": strings.TrimSuffix(obj.Key, path.Ext(obj.Key)),
		"timestamp": c.timestamp(),
	}
	if c.folder != "" {
		params["folder"] = c.folder
	}
	form := c.sign(params)

	filename := obj.Filename
	if filename == "" {
		filename = path.Base(obj.Key)
	}

	var result cloudinaryUploadResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, obj.Body).
		SetFormData(form).
		SetResult(&result).
		Post(fmt.Sprintf("/v1_1/%s/auto/upload", c.cloudName))
	if err != nil {
		log.Err(err).Str("func", "*cloudinaryMediaHost.Upload").Msg("error sending upload request")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*cloudinaryMediaHost.Upload").Int("status", resp.StatusCode()).Msg("upload rejected")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" || result.PublicID == "" {
		log.Error().Str("func", "*cloudinaryMediaHost.Upload").Msg("upload response without url or public id")
		return StoredObject{}, fmt.Errorf("%w: incomplete upload response", ErrUploadFailed)
	}

	resource := result.ResourceType
	if resource == "" {
		resource = defaultCloudinaryResource
	}

	log.Debug().Str("func", "*cloudinaryMediaHost.Upload").Str("public_id", result.PublicID).Msg("media uploaded")
	return StoredObject{
		URL:      url,
		PublicID: resource + "/" + result.PublicID,
	}, nil
}

// Delete expects the "<resource_type>/<public_id>" form returned by Upload.
func (c *cloudinaryMediaHost) Delete(ctx context.Context, publicID string) error {
	log := logger.FromContext(ctx)

	resource, id := splitCloudinaryID(publicID)
	if id == "" {
		return fmt.Errorf("%w: %q", ErrInvalidObjectKey, publicID)
	}

	form := c.sign(map[string]string{
		"public_id": id,
		"timestamp": c.timestamp(),
	})

	var result cloudinaryDestroyResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		Post(fmt.Sprintf("/v1_1/%s/%s/destroy", c.cloudName, resource))
	if err != nil {
		log.Err(err).Str("func", "*cloudinaryMediaHost.Delete").Msg("error sending destroy request")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*cloudinaryMediaHost.Delete").Int("status", resp.StatusCode()).Msg("destroy rejected")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	switch result.Result {
	case "ok", "not found":
		return nil
	}
	return fmt.Errorf("%w: unexpected result %q", ErrDeleteFailed, result.Result)
}

func (c *cloudinaryMediaHost) timestamp() string {
	return strconv.FormatInt(c.now().Unix(), 10)
}

// sign adds api_key and signature to params.
func (c *cloudinaryMediaHost) sign(params map[string]string) map[string]string {
	form := make(map[string]string, len(params)+2)
	for k, v := range params {
		form[k] = v
	}
	form["signature"] = cloudinarySignature(params, c.apiSecret)
	form["api_key"] = c.apiKey
	return form
}

// cloudinarySignature is the hex SHA-1 of the params sorted by name, joined
// as k=v pairs with '&', followed by the secret.
func cloudinarySignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func splitCloudinaryID(publicID string) (resource, id string) {
	resource, id, ok := strings.Cut(publicID, "/")
	if !ok {
		return defaultCloudinaryResource, publicID
	}
	switch resource {
	case "image", "video", "raw":
		return resource, id
	}
	return defaultCloudinaryResource, publicID
}
