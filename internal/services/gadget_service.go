// internal/services/gadget_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

// GadgetService owns catalog CRUD. Stock counts inside the color collection
// are seeded here at create/edit time but mutated afterwards only by the
// inventory ledger.
type GadgetService struct {
	db *gorm.DB
}

type ColorVariantRequest struct {
	Color string `json:"color" validate:"required"`
	Stock int    `json:"stock" validate:"gte=0"`
}

type CreateGadgetRequest struct {
	Brand     string                `json:"brand" validate:"required,max=100"`
	Name      string                `json:"name" validate:"required,max=255"`
	Price     float64               `json:"price" validate:"required,gt=0"`
	Images    []string              `json:"images,omitempty"`
	OS        string                `json:"os,omitempty"`
	Storage   string                `json:"storage,omitempty"`
	RAM       string                `json:"ram,omitempty"`
	Battery   string                `json:"battery,omitempty"`
	Display   string                `json:"display,omitempty"`
	Processor string                `json:"processor,omitempty"`
	Camera    string                `json:"camera,omitempty"`
	Colors    []ColorVariantRequest `json:"colors,omitempty" validate:"dive"`
}

func NewGadgetService(db *gorm.DB) *GadgetService {
	return &GadgetService{db: db}
}

func (s *GadgetService) List(ctx context.Context, brand string) ([]models.Gadget, error) {
	query := s.db.WithContext(ctx).Model(&models.Gadget{})
	if brand != "" {
		query = query.Where("LOWER(brand) = ?", strings.ToLower(brand))
	}

	var gadgets []models.Gadget
	if err := query.Order("created_at DESC").Find(&gadgets).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch gadgets: %w", err)
	}

	return gadgets, nil
}

func (s *GadgetService) Get(ctx context.Context, id uuid.UUID) (*models.Gadget, error) {
	var gadget models.Gadget
	if err := s.db.WithContext(ctx).Preload("Detail").First(&gadget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrGadgetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &gadget, nil
}

// Create inserts the gadget and its spec sheet in one transaction so the
// catalog never shows a gadget without its detail row.
func (s *GadgetService) Create(ctx context.Context, req *CreateGadgetRequest) (*models.Gadget, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateUniqueColors(req.Colors); err != nil {
		return nil, err
	}

	gadget := &models.Gadget{
		Brand:  req.Brand,
		Name:   req.Name,
		Price:  req.Price,
		Images: req.Images,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(gadget).Error; err != nil {
			return fmt.Errorf("failed to create gadget: %w", err)
		}

		detail := &models.GadgetDetail{
			GadgetID:  gadget.ID,
			OS:        req.OS,
			Storage:   req.Storage,
			RAM:       req.RAM,
			Battery:   req.Battery,
			Display:   req.Display,
			Processor: req.Processor,
			Camera:    req.Camera,
			Colors:    toColorVariants(req.Colors),
		}
		if err := tx.Create(detail).Error; err != nil {
			return fmt.Errorf("failed to create gadget detail: %w", err)
		}

		gadget.Detail = detail
		return nil
	})

	if err != nil {
		return nil, err
	}

	return gadget, nil
}

// Update edits the gadget and upserts its detail row in one transaction.
func (s *GadgetService) Update(ctx context.Context, id uuid.UUID, req *CreateGadgetRequest) (*models.Gadget, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateUniqueColors(req.Colors); err != nil {
		return nil, err
	}

	var gadget models.Gadget
	if err := s.db.WithContext(ctx).First(&gadget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrGadgetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"brand": req.Brand,
			"name":  req.Name,
			"price": req.Price,
		}
		if req.Images != nil {
			updates["images"] = req.Images
		}
		if err := tx.Model(&gadget).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update gadget: %w", err)
		}

		detailUpdates := map[string]interface{}{
			"os":        req.OS,
			"storage":   req.Storage,
			"ram":       req.RAM,
			"battery":   req.Battery,
			"display":   req.Display,
			"processor": req.Processor,
			"camera":    req.Camera,
		}
		if req.Colors != nil {
			detailUpdates["colors"] = toColorVariants(req.Colors)
		}

		var detail models.GadgetDetail
		err := tx.Where("gadget_id = ?", id).First(&detail).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			detail = models.GadgetDetail{
				GadgetID:  id,
				OS:        req.OS,
				Storage:   req.Storage,
				RAM:       req.RAM,
				Battery:   req.Battery,
				Display:   req.Display,
				Processor: req.Processor,
				Camera:    req.Camera,
				Colors:    toColorVariants(req.Colors),
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("failed to create gadget detail: %w", err)
			}
		case err != nil:
			return fmt.Errorf("database error: %w", err)
		default:
			if err := tx.Model(&detail).Updates(detailUpdates).Error; err != nil {
				return fmt.Errorf("failed to update gadget detail: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *GadgetService) Delete(ctx context.Context, id uuid.UUID) error {
	var gadget models.Gadget
	if err := s.db.WithContext(ctx).First(&gadget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrGadgetNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gadget_id = ?", id).Delete(&models.GadgetDetail{}).Error; err != nil {
			return fmt.Errorf("failed to delete gadget detail: %w", err)
		}
		if err := tx.Delete(&gadget).Error; err != nil {
			return fmt.Errorf("failed to delete gadget: %w", err)
		}
		return nil
	})
}

func toColorVariants(reqs []ColorVariantRequest) models.ColorVariants {
	variants := make(models.ColorVariants, 0, len(reqs))
	for _, r := range reqs {
		variants = append(variants, models.ColorVariant{Color: r.Color, Stock: r.Stock})
	}
	return variants
}

func validateUniqueColors(reqs []ColorVariantRequest) error {
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		if _, dup := seen[r.Color]; dup {
			return fmt.Errorf("duplicate color variant: %s", r.Color)
		}
		seen[r.Color] = struct{}{}
	}
	return nil
}
