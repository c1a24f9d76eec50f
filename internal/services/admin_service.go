// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/phelcone/phelcone-backend/internal/models"
)

type AdminService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	TotalGadgets      int64   `json:"total_gadgets"`
	TotalTransactions int64   `json:"total_transactions"`
	CompletedOrders   int64   `json:"completed_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Where("user_type = ?", models.UserTypeBuyer).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Gadget{}).Count(&stats.TotalGadgets).Error; err != nil {
		return nil, fmt.Errorf("failed to count gadgets: %w", err)
	}
	if err := db.Model(&models.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	if err := db.Model(&models.Transaction{}).Where("status = ?", models.TransactionStatusCompleted).Count(&stats.CompletedOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	var revenue struct{ Total float64 }
	if err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = revenue.Total

	return stats, nil
}
