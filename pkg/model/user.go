package model

import "time"

type Role string

const (
	RoleUser         Role = "user"
	RoleHotelManager Role = "hotelManager"
	RoleAdmin        Role = "admin"
)

type InventoryItem struct {
	RedeemableID string `json:"redeemableId" bson:"redeemable_id"`
	Count        int    `json:"count" bson:"count"`
}

type User struct {
	ID        string          `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string          `json:"name" bson:"name"`
	Email     string          `json:"email" bson:"email"`
	Tel       string          `json:"tel,omitempty" bson:"tel,omitempty"`
	Role      Role            `json:"role" bson:"role"`
	HotelID   string          `json:"hotel,omitempty" bson:"hotel_id,omitempty"`
	Point     int64           `json:"point" bson:"point"`
	Inventory []InventoryItem `json:"inventory" bson:"inventory"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
}

// InventoryCount returns how many units of a redeemable the user holds.
func (u *User) InventoryCount(redeemableID string) int {
	for _, item := range u.Inventory {
		if item.RedeemableID == redeemableID {
			return item.Count
		}
	}
	return 0
}

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	ID      string
	Role    Role
	HotelID string
}

func ActorFromUser(u *User) *Actor {
	return &Actor{ID: u.ID, Role: u.Role, HotelID: u.HotelID}
}

func (a *Actor) IsPrivileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleHotelManager
}
