package models

import "gorm.io/gorm"

type Vendor struct {
	gorm.Model
	VendorCode    string `json:"vendor_code" gorm:"unique"`
	VendorName    string `json:"vendor_name" gorm:"unique"`
	VendorAddr1   string `json:"vendor_addr1"`
	VendorCity    string `json:"vendor_city"`
	VendorCountry string `json:"vendor_country"`
	VendorPhone   string `json:"vendor_phone"`
	VendorEmail   string `json:"vendor_email"`
	GSTNumber     string `json:"gst_number"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}
