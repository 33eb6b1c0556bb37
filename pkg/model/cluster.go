package model

import "time"

// Cluster is one managed Ganeti backend endpoint. Connection parameters are
// owned by the registry; the aggregator only reads them.
type Cluster struct {
	// required: true
	ID uint `json:"id" gorm:"primaryKey"`
	// required: true
	CreatedAt time.Time `json:"createdAt"`
	// required: true
	UpdatedAt time.Time `json:"updatedAt"`
	// required: true
	Slug string `json:"slug" gorm:"uniqueIndex"`
	// required: true
	Hostname    string `json:"hostname" gorm:"uniqueIndex"`
	Description string `json:"description"`
	Port        int    `json:"port"`
	Username    string `json:"-"`
	Password    string `json:"-"`
	FastCreate  bool   `json:"fastCreate"`
}
