package synology

import "encoding/json"

type apiResponse struct {
	Success bool            `json:"success"`
	Error   *apiErrorDTO    `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type apiErrorDTO struct {
	Code int `json:"code"`
}

type listDTO[T any] struct {
	List []T `json:"list"`
}

type albumDTO struct {
	ID        int `json:"id"`
	ItemCount int `json:"item_count"`
}

type itemDTO struct {
	ID         int            `json:"id"`
	Filename   string         `json:"filename"`
	Time       int64          `json:"time"`
	Additional *additionalDTO `json:"additional,omitempty"`
}

type additionalDTO struct {
	Thumbnail *thumbnailDTO `json:"thumbnail,omitempty"`
	Address   *addressDTO   `json:"address,omitempty"`
}

type thumbnailDTO struct {
	CacheKey string `json:"cache_key"`
}

type addressDTO struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	District string `json:"district"`
	County   string `json:"county"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

// area picks the most specific populated place name.
func (a *addressDTO) area() string {
	for _, v := range []string{a.City, a.Town, a.Village, a.District, a.County, a.State} {
		if v != "" {
			return v
		}
	}
	return ""
}
