package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vestrapos/vestra/internal/cache"
	"github.com/vestrapos/vestra/internal/config"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/internal/whatsapp/bridge"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrNotReady     = bridge.ErrNotReady
	ErrUnavailable  = bridge.ErrUnavailable
)

type SendBillRequest struct {
	SaleID string `json:"sale_id"`
	Phone  string `json:"phone"`
}

// SendResult reports how the bill went out: "bridge" when dispatched
// server-side, "link" when the caller should open the wa.me URL.
type SendResult struct {
	Channel    string `json:"channel"`
	WaMeURL    string `json:"wa_me_url,omitempty"`
	ReceiptURL string `json:"receipt_url"`
}

type Service interface {
	Status(ctx context.Context) (bridge.Status, error)
	SendBill(ctx context.Context, req SendBillRequest) (SendResult, error)
}

type Params struct {
	fx.In

	Config      config.Config
	Log         *zap.Logger
	Bridge      *bridge.Client
	Cache       cache.Cache
	PosSvc      posdomain.Service
	SettingsSvc settingsdomain.Service
}

type service struct {
	cfg         config.Config
	log         *zap.Logger
	bridge      *bridge.Client
	cache       cache.Cache
	posSvc      posdomain.Service
	settingsSvc settingsdomain.Service
}

func New(p Params) Service {
	return &service{
		cfg:         p.Config,
		log:         p.Log.Named("whatsapp.service"),
		bridge:      p.Bridge,
		cache:       p.Cache,
		posSvc:      p.PosSvc,
		settingsSvc: p.SettingsSvc,
	}
}

// statusTTL matches the dashboard's poll interval so at most one bridge
// round-trip happens per poll cycle across all terminals.
const statusTTL = 5 * time.Second

const statusCacheKey = "whatsapp:status"

func (s *service) Status(ctx context.Context) (bridge.Status, error) {
	if raw, ok, err := s.cache.Get(ctx, statusCacheKey); err == nil && ok {
		var cached bridge.Status
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	}

	status, err := s.bridge.Status(ctx)
	if err != nil {
		return bridge.Status{}, err
	}
	if raw, err := json.Marshal(status); err == nil {
		_ = s.cache.Set(ctx, statusCacheKey, string(raw), statusTTL)
	}
	return status, nil
}

func (s *service) SendBill(ctx context.Context, req SendBillRequest) (SendResult, error) {
	sale, err := s.posSvc.GetSale(ctx, req.SaleID)
	if err != nil {
		return SendResult{}, err
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		phone = sale.CustomerPhone
	}
	if phone == "" {
		return SendResult{}, ErrInvalidPhone
	}

	settings, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return SendResult{}, err
	}

	receiptURL := fmt.Sprintf("%s/r/%s", s.cfg.PublicBaseURL, sale.ShareToken)
	message := BuildBillMessage(settings, sale, receiptURL)

	if s.bridge.Configured() {
		status, err := s.Status(ctx)
		if err == nil && status.Ready() {
			if err := s.bridge.SendMessage(ctx, phone, message); err == nil {
				s.log.Info("bill sent via bridge", zap.String("bill_number", sale.BillNumber))
				return SendResult{Channel: "bridge", ReceiptURL: receiptURL}, nil
			} else if !errors.Is(err, bridge.ErrNotReady) && !errors.Is(err, bridge.ErrUnavailable) {
				return SendResult{}, err
			}
		}
		// Bridge down or unauthenticated: degrade to a share link rather
		// than failing the whole send.
	}

	return SendResult{
		Channel:    "link",
		WaMeURL:    WaMeURL(phone, message),
		ReceiptURL: receiptURL,
	}, nil
}
