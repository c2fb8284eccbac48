package sanitizer

import "hotelbooking/pkg/model"

func NormalizeRooms(rooms []model.RoomRequest) []model.RoomRequest {
	if rooms == nil {
		return nil
	}
	result := make([]model.RoomRequest, len(rooms))
	for i, room := range rooms {
		result[i] = model.RoomRequest{
			RoomType: NormalizeRoomType(room.RoomType),
			Count:    room.Count,
		}
	}
	return result
}

func NormalizeBookingRequest(req *model.BookingRequest) {
	req.HotelID = NormalizeID(req.HotelID)
	req.UserID = NormalizeID(req.UserID)
	req.CouponID = NormalizeID(req.CouponID)
	req.Rooms = NormalizeRooms(req.Rooms)
}

func NormalizeBookingUpdate(update *model.BookingUpdate) {
	update.UserID = NormalizeID(update.UserID)
	if update.Rooms != nil {
		rooms := NormalizeRooms(*update.Rooms)
		update.Rooms = &rooms
	}
}
