package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/chanotech/chanote-backend/internal/data/repos"
	types "github.com/chanotech/chanote-backend/internal/domain"
	"github.com/chanotech/chanote-backend/internal/platform/dbctx"
	"github.com/chanotech/chanote-backend/internal/platform/envutil"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
)

// ApplicationSummary is the card sent to the operations channel when a loan
// application is finalized.
type ApplicationSummary struct {
	ApplicationID uuid.UUID
	UserID        uuid.UUID
	AmountTHB     float64
	OwnerName     string
	ProvinceName  string
	DistrictName  string
	ParcelNo      string
	Latitude      float64
	Longitude     float64
	ImageURLs     []string
}

type NotificationService interface {
	NotifyApplicationFinalized(ctx context.Context, summary ApplicationSummary)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	log        *logger.Logger
	repo       repos.NotificationRepo
	webhookURL string
	httpClient *http.Client
}

func NewNotificationService(log *logger.Logger, repo repos.NotificationRepo) NotificationService {
	return &notificationService{
		log:        log.With("service", "NotificationService"),
		repo:       repo,
		webhookURL: envutil.String("OPS_WEBHOOK_URL", ""),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NotifyApplicationFinalized formats and dispatches the operations card and
// records an in-app notification for the customer. Delivery failures are
// logged and swallowed; a notification must never fail a loan submission.
func (s *notificationService) NotifyApplicationFinalized(ctx context.Context, summary ApplicationSummary) {
	title := "คำขอสินเชื่อใหม่"
	body := fmt.Sprintf("วงเงิน %.2f บาท / เจ้าของ %s / โฉนดเลขที่ %s อ.%s จ.%s",
		summary.AmountTHB, summary.OwnerName, summary.ParcelNo, summary.DistrictName, summary.ProvinceName)

	imageURLs := make([]string, 0, 2)
	for _, raw := range summary.ImageURLs {
		if len(imageURLs) == 2 {
			break
		}
		encoded, err := EncodeImageURL(raw)
		if err != nil {
			s.log.Warn("skipping unencodable image url", "error", err)
			continue
		}
		imageURLs = append(imageURLs, encoded)
	}

	card := map[string]any{
		"title":        title,
		"body":         body,
		"amountTHB":    summary.AmountTHB,
		"ownerName":    summary.OwnerName,
		"parcelNo":     summary.ParcelNo,
		"districtName": summary.DistrictName,
		"provinceName": summary.ProvinceName,
		"latitude":     summary.Latitude,
		"longitude":    summary.Longitude,
		"imageUrls":    imageURLs,
	}
	payload, err := json.Marshal(card)
	if err != nil {
		s.log.Error("marshal notification card", "error", err)
		return
	}

	userID := summary.UserID
	n, err := s.repo.Create(dbctx.Context{Ctx: ctx}, &types.Notification{
		ID:      uuid.New(),
		UserID:  &userID,
		Channel: types.ChannelWebhook,
		Event:   "application_finalized",
		Title:   title,
		Body:    body,
		Payload: datatypes.JSON(payload),
		Status:  types.DeliveryPending,
	})
	if err != nil {
		s.log.Error("persist notification", "error", err)
		return
	}

	if s.webhookURL == "" {
		s.log.Warn("OPS_WEBHOOK_URL not set, skipping webhook dispatch")
		return
	}

	status := types.DeliverySent
	if err := s.dispatch(ctx, payload); err != nil {
		s.log.Warn("webhook dispatch failed", "error", err)
		status = types.DeliveryFailed
	}
	sentAt := time.Now().UTC()
	if err := s.repo.MarkDelivery(dbctx.Context{Ctx: ctx}, n.ID, status, &sentAt); err != nil {
		s.log.Error("mark notification delivery", "error", err)
	}
}

func (s *notificationService) dispatch(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error) {
	return s.repo.GetByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(dbctx.Context{Ctx: ctx}, id)
}

// EncodeImageURL percent-encodes every path segment of an image URL. The
// downstream card renderer rejects URLs with raw spaces or non-ASCII runes in
// the path. Already-encoded segments are decoded first so encoding twice is
// safe.
func EncodeImageURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse image url: %w", err)
	}

	segments := strings.Split(u.EscapedPath(), "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			decoded = seg
		}
		segments[i] = url.PathEscape(decoded)
	}
	u.RawPath = strings.Join(segments, "/")
	u.Path, err = url.PathUnescape(u.RawPath)
	if err != nil {
		return "", fmt.Errorf("rebuild image url path: %w", err)
	}

	return u.String(), nil
}
