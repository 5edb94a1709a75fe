package repositories

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"procure-app/models"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db}
}

type listRequest struct {
	ID            string `json:"ID"`
	RequestNumber string `json:"request_number"`
	ItemName      string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	Uom           string `json:"uom"`
	Status        string `json:"status"`
	DirectAction  string `json:"direct_action"`
	SiteName      string `json:"site_name"`
	CentralStock  int    `json:"central_stock"`
}

type RequestGroup struct {
	RequestNumber string        `json:"request_number"`
	Items         []listRequest `json:"items"`
}

// GetGroupedRequests lists request line items joined with the current
// central stock of the matching inventory item, grouped by request
// number for the dashboard cards.
func (r *RequestRepository) GetGroupedRequests() ([]RequestGroup, error) {

	sqlRequests := `select cast(a.id as varchar(32)) as id, a.request_number, a.item_name,
	a.quantity, a.uom, a.status, a.direct_action, a.site_name,
	coalesce(b.central_stock, 0) as central_stock
	from purchase_requests a
	left join inventory_items b on lower(b.item_name) = lower(a.item_name)
	where a.deleted_at is null
	order by a.request_number, a.created_at
	`

	var rows []listRequest
	if err := r.db.Raw(sqlRequests).Scan(&rows).Error; err != nil {
		return nil, err
	}

	grouped := make(map[string][]listRequest)
	for _, row := range rows {
		grouped[row.RequestNumber] = append(grouped[row.RequestNumber], row)
	}

	numbers := maps.Keys(grouped)
	slices.Sort(numbers)

	groups := make([]RequestGroup, 0, len(numbers))
	for _, number := range numbers {
		groups = append(groups, RequestGroup{RequestNumber: number, Items: grouped[number]})
	}
	return groups, nil
}

type statusCount struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// GetStatusCounts feeds the dashboard summary.
func (r *RequestRepository) GetStatusCounts() ([]statusCount, error) {
	var counts []statusCount
	err := r.db.Model(&models.PurchaseRequest{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
