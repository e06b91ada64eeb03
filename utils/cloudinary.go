package utils

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmhmddd/PowerEV-Server/config"
	"github.com/mmhmddd/PowerEV-Server/models"

	"github.com/google/uuid"
)

// Uploader is thin glue over the Cloudinary upload REST API. Inline
// base64 payloads are pushed to the media host; strings that are already
// URLs pass through untouched.
type Uploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewUploader() *Uploader {
	return &Uploader{
		cloudName: config.GetEnv("CLOUDINARY_CLOUD_NAME", ""),
		apiKey:    config.GetEnv("CLOUDINARY_API_KEY", ""),
		apiSecret: config.GetEnv("CLOUDINARY_API_SECRET", ""),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FolderFor maps a catalog to its media folder.
func FolderFor(t models.ProductType) string {
	return "powerev/" + strings.ToLower(string(t)) + "s"
}

func (u *Uploader) enabled() bool {
	return u.cloudName != "" && u.apiKey != "" && u.apiSecret != ""
}

// UploadImages uploads every inline payload and returns the final URL
// list in the original order.
func (u *Uploader) UploadImages(ctx context.Context, images []string, folder string) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img == "" {
			continue
		}
		if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") || !u.enabled() {
			urls = append(urls, img)
			continue
		}
		uploaded, err := u.upload(ctx, img, folder)
		if err != nil {
			return nil, err
		}
		urls = append(urls, uploaded)
	}
	return urls, nil
}

func (u *Uploader) upload(ctx context.Context, image, folder string) (string, error) {
	publicID := uuid.NewString()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	form := url.Values{}
	form.Set("file", image)
	form.Set("api_key", u.apiKey)
	form.Set("timestamp", timestamp)
	form.Set("folder", folder)
	form.Set("public_id", publicID)
	form.Set("signature", u.sign(map[string]string{
		"folder":    folder,
		"public_id": publicID,
		"timestamp": timestamp,
	}))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary upload: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("cloudinary upload: decode response: %w", err)
	}
	return result.SecureURL, nil
}

// DeleteImages destroys the assets behind the given URLs. Non-Cloudinary
// URLs are skipped.
func (u *Uploader) DeleteImages(ctx context.Context, urls []string) error {
	if !u.enabled() {
		return nil
	}
	for _, imageURL := range urls {
		publicID := publicIDFromURL(imageURL)
		if publicID == "" {
			continue
		}
		if err := u.destroy(ctx, publicID); err != nil {
			return err
		}
	}
	return nil
}

func (u *Uploader) destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("api_key", u.apiKey)
	form.Set("timestamp", timestamp)
	form.Set("signature", u.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/destroy", u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary destroy: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// sign builds the request signature: the sorted params in query form,
// concatenated with the API secret, sha1-hexed.
func (u *Uploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	// Cloudinary requires alphabetical parameter order.
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	sb.WriteString(u.apiSecret)

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// publicIDFromURL recovers "folder/name" from a Cloudinary delivery URL.
func publicIDFromURL(imageURL string) string {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return ""
	}
	parts := strings.SplitN(imageURL, "/upload/", 2)
	if len(parts) != 2 {
		return ""
	}
	p := parts[1]
	// Drop the version segment (v1234567890/...).
	if idx := strings.IndexByte(p, '/'); idx > 0 && strings.HasPrefix(p, "v") {
		if _, err := strconv.Atoi(p[1:idx]); err == nil {
			p = p[idx+1:]
		}
	}
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext)
}
