// Package location is the read model of storefront locations the order core
// consults. Locations and their schedules are managed elsewhere; here they
// are only loaded and evaluated.
package location

import (
	"dely-backend/pkg/schedule"
)

// Location is one physical storefront of a shop.
type Location struct {
	ID            int64         `json:"id"`
	ShopID        int64         `json:"shopId"`
	City          string        `json:"city"`
	Address       string        `json:"address"`
	PhoneNumber   string        `json:"phoneNumber"`
	Delivery      bool          `json:"delivery"`
	InPlace       bool          `json:"inPlace"`
	TakeAway      bool          `json:"takeAway"`
	DeliveryPrice string        `json:"deliveryPrice"`
	TimeZone      string        `json:"timeZone"`
	Hours         schedule.Week `json:"workingHours"`
}

// ListedLocation is a location enriched with its evaluated open state for
// the public listing.
type ListedLocation struct {
	Location
	TodayWorkingTimes string `json:"todayWorkingTimes"`
	Opened            bool   `json:"opened"`
}
