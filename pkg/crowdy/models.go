package crowdy

// StatusEntry is one popular-times sample: the status string observed at a
// given hour of the day (0-23). Hours with no data are simply absent.
type StatusEntry struct {
	Time   int    `json:"time"`
	Status string `json:"status"`
}

// LocationInfo is a single row of the location-search response. The feed
// serializes coordinates as strings and they are not guaranteed to be
// numeric, so parsing is deferred to the pipeline.
type LocationInfo struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Live      bool   `json:"live"`
	NowStatus string `json:"nowStatus"`
	Link      string `json:"link"`

	// AllStatus maps day of week (0 = Sunday .. 6 = Saturday) to the
	// scheduled popular-times samples for that day. Sparse.
	AllStatus map[int][]StatusEntry `json:"allStatus"`
}

// LocationsResponse covers both payload shapes the backend has shipped:
// the current {"locationInfoList": [...]} and the legacy {"locations": [...]}.
type LocationsResponse struct {
	LocationInfoList []LocationInfo `json:"locationInfoList"`
	Locations        []LocationInfo `json:"locations"`
}

// Rows returns whichever result list the response carried, or nil if the
// payload held neither (the caller treats that as an unusable response).
func (r *LocationsResponse) Rows() []LocationInfo {
	if r.LocationInfoList != nil {
		return r.LocationInfoList
	}
	return r.Locations
}
