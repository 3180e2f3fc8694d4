package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"orgdocs-backend/internal/documents"
	"orgdocs-backend/internal/identity"
	"orgdocs-backend/internal/organizations"
	"orgdocs-backend/internal/shared/metrics"
	"orgdocs-backend/internal/shared/server/middleware"
	"orgdocs-backend/internal/shared/server/respond"
	"orgdocs-backend/internal/shared/storage/object"
	"orgdocs-backend/internal/shared/telemetry"
	"orgdocs-backend/internal/shared/util"
)

const (
	defaultMaxBytes   = 10 << 20
	multipartOverhead = 1 << 20
	fileField         = "file"
	descriptionField  = "description"
)

// Authenticator resolves the caller from an Authorization header.
type Authenticator interface {
	Verify(ctx context.Context, authHeader string) (identity.User, bool)
}

// OrgResolver resolves the caller's organization.
type OrgResolver interface {
	Resolve(ctx context.Context, user *identity.User) (organizations.Resolution, bool)
}

// Options carries the upload limits read once at startup.
type Options struct {
	Bucket       string
	MaxBytes     int64
	AllowedTypes []string
}

// Handler accepts one organization document per request.
type Handler struct {
	auth     Authenticator
	orgs     OrgResolver
	store    object.ObjectStore
	records  documents.Writer
	bucket   string
	maxBytes int64
	allowed  map[string]struct{}
	newID    func() string
}

// NewHandler wires a Handler.
func NewHandler(auth Authenticator, orgs OrgResolver, store object.ObjectStore, records documents.Writer, opts Options) *Handler {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	allowed := make(map[string]struct{}, len(opts.AllowedTypes))
	for _, t := range opts.AllowedTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			allowed[t] = struct{}{}
		}
	}
	return &Handler{
		auth:     auth,
		orgs:     orgs,
		store:    store,
		records:  records,
		bucket:   opts.Bucket,
		maxBytes: maxBytes,
		allowed:  allowed,
		newID:    uuid.NewString,
	}
}

type uploadResponse struct {
	DocumentID string `json:"document_id"`
	PublicURL  string `json:"public_url"`
	Warning    string `json:"warning,omitempty"`
}

// RegisterRoutes mounts the upload endpoint under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations/me/documents", h.Upload)
}

// Upload handles POST /api/organizations/me/documents.
func (h *Handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := h.auth.Verify(ctx, c.GetHeader("Authorization"))
	if !ok {
		h.fail(c, "unauthenticated", http.StatusUnauthorized, "Not authenticated", "")
		return
	}
	middleware.SetUser(c, user.ID, user.Email)

	org, ok := h.orgs.Resolve(ctx, &user)
	if !ok {
		h.fail(c, "no_organization", http.StatusForbidden, "User is not associated with an organization", "")
		return
	}
	if !util.SafeOrgID(org.OrgID) {
		telemetry.Warn("upload.org_id.rejected", map[string]any{"user_id": user.ID, "source": string(org.Source)})
		h.fail(c, "invalid_organization", http.StatusForbidden, "User is not associated with an organization", "")
		return
	}
	middleware.SetOrgID(c, org.OrgID)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	fh, err := c.FormFile(fileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, "too_large", http.StatusRequestEntityTooLarge, "File too large", fmt.Sprintf("Files must be <= %d bytes", h.maxBytes))
			return
		}
		h.fail(c, "missing_file", http.StatusBadRequest, "No file uploaded (field name must be 'file')", "")
		return
	}

	contentType := mediaType(fh.Header.Get("Content-Type"))
	if _, ok := h.allowed[contentType]; !ok {
		h.fail(c, "unsupported_media_type", http.StatusUnsupportedMediaType, "Unsupported media type", fmt.Sprintf("Uploaded MIME type '%s' is not allowed", contentType))
		return
	}

	data, size, err := readUpload(fh, h.maxBytes)
	if errors.Is(err, errTooLarge) {
		h.fail(c, "too_large", http.StatusRequestEntityTooLarge, "File too large", fmt.Sprintf("Files must be <= %d bytes", h.maxBytes))
		return
	}
	if err != nil {
		h.fail(c, "read_failed", http.StatusInternalServerError, err.Error(), "")
		return
	}

	filename := fh.Filename
	if strings.TrimSpace(filename) == "" {
		filename = "uploaded"
	}
	docID := h.newID()
	middleware.SetDocumentID(c, docID)
	storagePath := StoragePath(org.OrgID, docID, filename)

	publicURL, err := h.store.Put(ctx, h.bucket, storagePath, data, contentType)
	if err != nil {
		h.fail(c, "storage_failed", http.StatusInternalServerError, "Upload failed", err.Error())
		return
	}

	rec := documents.Record{
		ID:          docID,
		OrgID:       org.OrgID,
		UploadedBy:  user.ID,
		Filename:    filename,
		StoragePath: storagePath,
		Bucket:      h.bucket,
		PublicURL:   publicURL,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if desc, ok := c.GetPostForm(descriptionField); ok {
		rec.Description = &desc
	}

	resp := uploadResponse{DocumentID: docID, PublicURL: publicURL}
	result := h.records.Insert(ctx, rec)
	switch {
	case result.Err != nil:
		resp.Warning = "DB insert failed"
		metrics.IncRecordInsert("failed")
		telemetry.Error("uploads.record.failed", map[string]any{
			"document_id": docID,
			"org_id":      org.OrgID,
			"attempts":    result.Attempts,
			"err":         result.Err.Error(),
		})
	case result.Empty():
		resp.Warning = "DB insert may have failed"
		metrics.IncRecordInsert("empty")
		telemetry.Warn("uploads.record.empty", map[string]any{
			"document_id": docID,
			"org_id":      org.OrgID,
			"attempts":    result.Attempts,
		})
	default:
		metrics.IncRecordInsert("inserted")
	}

	metrics.IncUpload("created")
	telemetry.Info("uploads.created", map[string]any{
		"document_id":  docID,
		"org_id":       org.OrgID,
		"org_source":   string(org.Source),
		"user_id":      user.ID,
		"storage_path": storagePath,
		"size_bytes":   size,
		"content_type": contentType,
		"backend":      h.store.Name(),
	})
	respond.Created(c, resp)
}

func (h *Handler) fail(c *gin.Context, outcome string, status int, message, detail string) {
	metrics.IncUpload(outcome)
	respond.Error(c, status, message, detail)
}

// StoragePath builds orgs/<org_id>/<doc_id><ext>. Callers check orgID with
// util.SafeOrgID first.
func StoragePath(orgID, docID, filename string) string {
	return "orgs/" + orgID + "/" + docID + util.SafeExtension(filename)
}

// mediaType returns the bare, lower-cased media type, defaulting to
// application/octet-stream.
func mediaType(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return "application/octet-stream"
	}
	if mt, _, err := mime.ParseMediaType(header); err == nil {
		return mt
	}
	return strings.ToLower(header)
}

var errTooLarge = errors.New("upload exceeds limit")

func readUpload(fh *multipart.FileHeader, maxBytes int64) ([]byte, int64, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return readSized(f, maxBytes)
}

// readSized measures r by seeking when it can, and by buffering the whole
// payload otherwise. Oversized payloads are rejected before being read.
func readSized(r io.Reader, maxBytes int64) ([]byte, int64, error) {
	if s, ok := r.(io.Seeker); ok {
		size, err := s.Seek(0, io.SeekEnd)
		if err == nil {
			if _, err = s.Seek(0, io.SeekStart); err == nil {
				if size > maxBytes {
					return nil, size, errTooLarge
				}
				data, err := io.ReadAll(r)
				if err != nil {
					return nil, 0, fmt.Errorf("read upload: %w", err)
				}
				return data, int64(len(data)), nil
			}
		}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, 0, fmt.Errorf("read upload: %w", err)
	}
	size := int64(buf.Len())
	if size > maxBytes {
		return nil, size, errTooLarge
	}
	return buf.Bytes(), size, nil
}
