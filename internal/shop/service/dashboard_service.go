package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
)

const (
	dashboardCacheKey = "shop:dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardService aggregates the shop-wide counters for the front page.
// Results are cached in redis for a short window; without a redis client the
// counters are computed on every call.
type DashboardService struct {
	repos *repository.Repositories
	rdb   *redis.Client
}

func NewDashboardService(repos *repository.Repositories, rdb *redis.Client) *DashboardService {
	return &DashboardService{repos: repos, rdb: rdb}
}

// DashboardStats is the front-page aggregate.
type DashboardStats struct {
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	JobsByStatus      map[string]int64 `json:"jobs_by_status"`
	LowStockMaterials int64            `json:"low_stock_materials"`
	ActiveProductions int64            `json:"active_productions"`
	TotalClients      int64            `json:"total_clients"`
	FrequentClients   int64            `json:"frequent_clients"`
	ActiveProducts    int64            `json:"active_products"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int64),
		JobsByStatus:   make(map[string]int64),
		GeneratedAt:    time.Now(),
	}

	for _, status := range entity.OrderStatuses {
		orders, err := s.repos.Sales.CountOrdersByStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}
		stats.OrdersByStatus[status] = orders

		jobs, err := s.repos.Sales.CountJobsByStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to count jobs: %w", err)
		}
		stats.JobsByStatus[status] = jobs
	}

	var err error
	if stats.LowStockMaterials, err = s.repos.Material.CountLowStock(); err != nil {
		return nil, fmt.Errorf("failed to count low-stock materials: %w", err)
	}
	if stats.ActiveProductions, err = s.repos.Production.CountActive(); err != nil {
		return nil, fmt.Errorf("failed to count active productions: %w", err)
	}
	if stats.TotalClients, err = s.repos.Client.CountAll(); err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	if stats.FrequentClients, err = s.repos.Client.CountFrequent(); err != nil {
		return nil, fmt.Errorf("failed to count frequent clients: %w", err)
	}
	if stats.ActiveProducts, err = s.repos.Product.CountActive(); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			// best effort, a cold cache just recomputes
			s.rdb.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL)
		}
	}
	return stats, nil
}
