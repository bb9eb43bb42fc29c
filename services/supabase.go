package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aionlabs/aion-admin/config"
	"github.com/aionlabs/aion-admin/errs"
)

// SupabaseStorage signs uploads against the Supabase storage REST API,
// the BaaS-hosted alternative to the S3 path.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	bucket     string
	client     *http.Client
}

// NewSupabaseStorage returns nil when Supabase is not configured.
func NewSupabaseStorage(cfg map[string]string) *SupabaseStorage {
	baseURL := strings.TrimRight(config.GetString(cfg, "SUPABASE_URL", ""), "/")
	serviceKey := config.GetString(cfg, "SUPABASE_SERVICE_KEY", "")
	if baseURL == "" || serviceKey == "" {
		return nil
	}
	return &SupabaseStorage{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     config.GetString(cfg, "SUPABASE_BUCKET", "attachments"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type supabaseSignResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// SignUpload asks Supabase for a signed upload URL for one object.
func (s *SupabaseStorage) SignUpload(ctx context.Context, fileName string) (*PresignedUpload, error) {
	if s == nil {
		return nil, errs.NewProviderNotConfiguredError("Supabase")
	}

	key := fmt.Sprintf("%d_%s_%s", time.Now().Unix(), uuid.New().String(), SafeFileName(fileName))
	endpoint := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", s.baseURL, s.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, errs.NewStorageSigningError("Supabase", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("x-client-info", "aion-admin")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errs.NewStorageSigningError("Supabase", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.NewStorageSigningError("Supabase", fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var parsed supabaseSignResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errs.NewStorageSigningError("Supabase", err)
	}

	return &PresignedUpload{
		UploadURL: s.baseURL + "/storage/v1" + parsed.URL,
		PublicURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key),
		Key:       key,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}
