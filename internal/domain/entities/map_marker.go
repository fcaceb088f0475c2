package entities

// MapLocation is a latitude/longitude pair.
type MapLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapMarker is a priced pin shown on the request map.
type MapMarker struct {
	ID       string      `json:"id"`
	Position MapLocation `json:"position"`
	Title    string      `json:"title"`
	Price    float64     `json:"price"`
}

// MarkerForRequest derives the map pin for a request.
func MarkerForRequest(r *MoveRequest) MapMarker {
	return MapMarker{
		ID:       r.ID,
		Position: MapLocation{Lat: r.Location.Lat, Lng: r.Location.Lng},
		Title:    r.Title,
		Price:    r.Price,
	}
}
