package goingelectric

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
	Street   string `json:"street"`
}

type ChargePoint struct {
	Count int     `json:"count"`
	Power float64 `json:"power"`
	Type  string  `json:"type"`
}

// optionalString is a string field the API sends as `false` when unset.
type optionalString string

func (s *optionalString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("false")) || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = optionalString(v)
	return nil
}

type ChargeLocation struct {
	ID           json.Number    `json:"ge_id"`
	Name         string         `json:"name"`
	Address      Address        `json:"address"`
	Coordinates  Coordinates    `json:"coordinates"`
	Network      optionalString `json:"network"`
	ChargePoints []ChargePoint  `json:"chargepoints"`
}

type chargePointsResponse struct {
	Status          string           `json:"status"`
	ChargeLocations []ChargeLocation `json:"chargelocations"`
	StartKey        int              `json:"startkey"`
}

func (l ChargeLocation) idString() string {
	if i, err := l.ID.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return l.ID.String()
}
