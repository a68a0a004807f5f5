package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/catalog"
)

// CreateDesignRequest represents a request to create a card design
type CreateDesignRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=120"`
	Description string          `json:"description" binding:"max=2000"`
	Material    string          `json:"material" binding:"required,max=50"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
	BaseMSP     decimal.Decimal `json:"base_msp"`
}

// UpdateDesignRequest represents a partial design update
type UpdateDesignRequest struct {
	Name        *string               `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string               `json:"description" binding:"omitempty,max=2000"`
	Material    *string               `json:"material" binding:"omitempty,max=50"`
	ImageURL    *string               `json:"image_url" binding:"omitempty,max=500"`
	BaseMSP     *decimal.Decimal      `json:"base_msp"`
	Status      *catalog.DesignStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

// DesignListFilter represents filter options for the admin design list
type DesignListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name base_msp total_sales created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DesignResponse represents a design in admin API responses
type DesignResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Material    string               `json:"material"`
	ImageURL    string               `json:"image_url"`
	BaseMSP     decimal.Decimal      `json:"base_msp"`
	Status      catalog.DesignStatus `json:"status"`
	TotalSales  int64                `json:"total_sales"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// PublicDesignResponse is a catalog entry as the funnel and agents see it.
// MSP is the caller's effective minimum selling price.
type PublicDesignResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Material    string          `json:"material"`
	ImageURL    string          `json:"image_url"`
	MSP         decimal.Decimal `json:"msp"`
	IsOverride  bool            `json:"is_override"`
}

// ToDesignResponse converts a domain CardDesign to DesignResponse
func ToDesignResponse(d *catalog.CardDesign) DesignResponse {
	return DesignResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Material:    d.Material,
		ImageURL:    d.ImageURL,
		BaseMSP:     d.BaseMSP,
		Status:      d.Status,
		TotalSales:  d.TotalSales,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
