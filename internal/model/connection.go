package model

// Connection is one raw row from the dashboard connections table. The
// Locations field is the table cell text as scraped; splitting and cleanup
// happen in the pipeline's normalize stage.
type Connection struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Username    string `json:"username"`
	Status      string `json:"status"`
	Locations   string `json:"locations"`
	LastUpdated string `json:"last_updated"`
}

// Key returns the aggregation key for this connection. One connection may
// span several locations, so the key is derived from name and domain, never
// from a location id.
func (c Connection) Key() string {
	return c.Name + "|" + c.Domain
}

// Valid reports whether the row carries every required field.
func (c Connection) Valid() bool {
	return c.Name != "" && c.Domain != "" && c.Status != ""
}

// LocationUnit is one connection/location pair produced by the normalize
// stage. GroupID and GroupName are filled by the enrich stage; GroupKnown
// records whether the location id resolved against the reference index.
type LocationUnit struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Username    string `json:"username"`
	Status      string `json:"status"`
	LastUpdated string `json:"last_updated"`
	LocationID  string `json:"location_id"`
	GroupID     string `json:"group_id"`
	GroupName   string `json:"group_name"`
	GroupKnown  bool   `json:"group_known"`
}

// AggregatedConnection is the final output unit: one row per connection key
// with the merged location and group ids of every unit that mapped to it.
// Merged slices are deduplicated and keep first-seen order.
type AggregatedConnection struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain"`
	Username    string   `json:"username"`
	Status      string   `json:"status"`
	LastUpdated string   `json:"last_updated"`
	LocationIDs []string `json:"location_ids"`
	GroupIDs    []string `json:"group_ids"`
	GroupNames  []string `json:"group_names"`
}
