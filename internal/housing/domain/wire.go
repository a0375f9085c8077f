package domain

// HousingResponse is the public shape of a record.
type HousingResponse struct {
	ID    int64    `json:"id"`
	Rooms int      `json:"rooms"`
	Price *float64 `json:"price"`
}

func ToResponse(h Housing) HousingResponse {
	return HousingResponse{ID: h.ID, Rooms: h.Rooms, Price: h.Price}
}

// ToResponses keeps order and never returns nil.
func ToResponses(items []Housing) []HousingResponse {
	out := make([]HousingResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToResponse(item))
	}
	return out
}
