package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/internal/users"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/models"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/redis"
)

const (
	defaultBestClientsLimit = 10
	defaultBestSellersLimit = 5
)

// Service computes the sales leaderboards over completed orders. Reports are
// not scoped to the caller.
type Service interface {
	BestClients(ctx context.Context) ([]ClientRanking, error)
	BestSellers(ctx context.Context) ([]SellerRanking, error)
}

type aggregator interface {
	TopClients(ctx context.Context, limit int) ([]EntityTotal, error)
	TopSellers(ctx context.Context, limit int) ([]EntityTotal, error)
}

type clientLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Client, error)
}

type userLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
}

// ServiceParams bundles the report dependencies. Cache may be nil.
type ServiceParams struct {
	Repo    aggregator
	Clients clientLookup
	Users   userLookup
	Cache   redis.Cache
	Config  config.ReportsConfig
	Logger  *logger.Logger
}

type service struct {
	repo    aggregator
	clients clientLookup
	users   userLookup
	cache   redis.Cache
	cfg     config.ReportsConfig
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if params.Clients == nil || params.Users == nil {
		return nil, fmt.Errorf("client and user lookups required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg := params.Config
	if cfg.BestClientsLimit <= 0 {
		cfg.BestClientsLimit = defaultBestClientsLimit
	}
	if cfg.BestSellersLimit <= 0 {
		cfg.BestSellersLimit = defaultBestSellersLimit
	}
	return &service{
		repo:    params.Repo,
		clients: params.Clients,
		users:   params.Users,
		cache:   params.Cache,
		cfg:     cfg,
		logg:    params.Logger,
	}, nil
}

func (s *service) BestClients(ctx context.Context) ([]ClientRanking, error) {
	key := fmt.Sprintf("best_clients:%d", s.cfg.BestClientsLimit)
	var cached []ClientRanking
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	totals, err := s.repo.TopClients(ctx, s.cfg.BestClientsLimit)
	if err != nil {
		return nil, err
	}
	found, err := s.clients.FindByIDs(ctx, entityIDs(totals))
	if err != nil {
		return nil, err
	}

	out := make([]ClientRanking, 0, len(totals))
	for _, row := range totals {
		entry := ClientRanking{ClientID: row.EntityID, Total: row.Total}
		if client, ok := found[row.EntityID]; ok {
			entry.Client = clients.FromModel(&client)
		}
		out = append(out, entry)
	}
	s.writeCache(ctx, key, out)
	return out, nil
}

func (s *service) BestSellers(ctx context.Context) ([]SellerRanking, error) {
	key := fmt.Sprintf("best_sellers:%d", s.cfg.BestSellersLimit)
	var cached []SellerRanking
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	totals, err := s.repo.TopSellers(ctx, s.cfg.BestSellersLimit)
	if err != nil {
		return nil, err
	}
	found, err := s.users.FindByIDs(ctx, entityIDs(totals))
	if err != nil {
		return nil, err
	}

	out := make([]SellerRanking, 0, len(totals))
	for _, row := range totals {
		entry := SellerRanking{SellerID: row.EntityID, Total: row.Total}
		if user, ok := found[row.EntityID]; ok {
			entry.Seller = users.FromModel(&user)
		}
		out = append(out, entry)
	}
	s.writeCache(ctx, key, out)
	return out, nil
}

// readCache reports a hit. Cache errors are logged and treated as misses.
func (s *service) readCache(ctx context.Context, name string, dest any) bool {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return false
	}
	raw, err := s.cache.Get(ctx, s.cache.ReportKey(name))
	if err != nil {
		if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"report": name, "error": err.Error()}), "reports.cache_read_failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"report": name, "error": err.Error()}), "reports.cache_decode_failed")
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, name string, value any) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "report", name), "reports.cache_encode_failed")
		return
	}
	if err := s.cache.Set(ctx, s.cache.ReportKey(name), string(payload), s.cfg.CacheTTL); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"report": name, "error": err.Error()}), "reports.cache_write_failed")
	}
}

func entityIDs(rows []EntityTotal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.EntityID)
	}
	return ids
}
