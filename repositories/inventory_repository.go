package repositories

import (
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

type listStock struct {
	ItemName       string `json:"item_name"`
	Uom            string `json:"uom"`
	CentralStock   int    `json:"central_stock"`
	OpenRequests   int    `json:"open_requests"`
	OpenRequestQty int    `json:"open_request_qty"`
}

// GetStockSummary lists central stock together with the open request
// demand against each item.
func (r *InventoryRepository) GetStockSummary() ([]listStock, error) {

	sqlStock := `select a.item_name, a.uom, a.central_stock,
	count(b.id) as open_requests,
	coalesce(sum(b.quantity), 0) as open_request_qty
	from inventory_items a
	left join purchase_requests b on lower(b.item_name) = lower(a.item_name)
	and b.status not in ('delivered') and b.deleted_at is null
	where a.deleted_at is null
	group by a.item_name, a.uom, a.central_stock
	order by a.item_name
	`

	var stocks []listStock
	if err := r.db.Raw(sqlStock).Scan(&stocks).Error; err != nil {
		return nil, err
	}

	return stocks, nil
}
