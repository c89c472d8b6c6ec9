package models

// Location результат определения местоположения
type Location struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Address   string         `json:"address,omitempty"`
	Accuracy  *float64       `json:"accuracy,omitempty"`
	Source    LocationSource `json:"source"`
}

// GeocodeResult один вариант из ответа геокодера
type GeocodeResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// ResolveRequest входные данные для определения местоположения
type ResolveRequest struct {
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
	ClientIP  string
	Query     string
}
