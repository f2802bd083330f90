package model

// LocationGroup is one record of the reference dataset mapping a location id
// to its practice group.
type LocationGroup struct {
	LocationID string `json:"location_id"`
	GroupID    string `json:"group_id"`
	GroupName  string `json:"group_name"`
}
