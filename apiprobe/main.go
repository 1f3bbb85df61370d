package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type StatusEntry struct {
	Time   int    `json:"time"`
	Status string `json:"status"`
}

type LocationInfo struct {
	Name      string                `json:"name"`
	Address   string                `json:"address"`
	Latitude  string                `json:"latitude"`
	Longitude string                `json:"longitude"`
	Live      bool                  `json:"live"`
	NowStatus string                `json:"nowStatus"`
	AllStatus map[int][]StatusEntry `json:"allStatus"`
}

type LocationsResponse struct {
	LocationInfoList []LocationInfo `json:"locationInfoList"`
	Locations        []LocationInfo `json:"locations"`
}

func main() {
	// Marina Bay area
	url := "https://crowdy-2020.herokuapp.com/api/locations?category=Supermarket&latitude=1.3521&longitude=103.8198"

	fmt.Println("Probing the crowdy locations feed...")

	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var res LocationsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		fmt.Println("Error decoding JSON:", err)
		return
	}

	rows := res.LocationInfoList
	if rows == nil {
		rows = res.Locations
	}

	fmt.Printf("\n--- 🏪 %d supermarkets near 1.3521, 103.8198 ---\n", len(rows))
	for _, loc := range rows {
		live := ""
		if loc.Live {
			live = " [LIVE]"
		}
		fmt.Printf("%s (%s, %s)%s\n  now: %q, days with schedule: %d\n",
			loc.Name, loc.Latitude, loc.Longitude, live, loc.NowStatus, len(loc.AllStatus))
	}
}
