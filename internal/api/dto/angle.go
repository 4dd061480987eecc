package dto

type AngleRequest struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	CRS   string `json:"crs"`
}

// AngleResponse leaves angle_degrees null unless the outcome is "defined" and
// intersection null when the lines do not meet at a single point.
type AngleResponse struct {
	AngleDegrees *float64 `json:"angle_degrees"`
	Outcome      string   `json:"outcome"`
	Intersection *string  `json:"intersection"`
	Mode         string   `json:"mode"`
}

type BatchPairRequest struct {
	ID    int64  `json:"id"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	CRS   string `json:"crs"`
}

type BatchRequest struct {
	Pairs []BatchPairRequest `json:"pairs"`
}

// BatchPairResponse carries either the computed fields or Error.
type BatchPairResponse struct {
	ID           int64    `json:"id"`
	AngleDegrees *float64 `json:"angle_degrees"`
	Outcome      string   `json:"outcome,omitempty"`
	Intersection *string  `json:"intersection"`
	Mode         string   `json:"mode,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type BatchResponse struct {
	Results []BatchPairResponse `json:"results"`
}
