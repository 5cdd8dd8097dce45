package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// rawEnvelope is the collection response shape: {"data": [...], "meta": {"pagination": {...}}}.
// Error responses carry {"data": null, "error": {...}}.
type rawEnvelope struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		Pagination rawPagination `json:"pagination"`
	} `json:"meta"`
	Error *rawError `json:"error"`
}

type rawPagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type rawError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type rawProduct struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Price          flexNumber      `json:"price"`
	Image          mediaField      `json:"image"`
	Category       *rawCategoryRef `json:"category"`
	DisplaySize    flexString      `json:"displaySize"`
	Brightness     flexString      `json:"brightness"`
	PeakBrightness flexString      `json:"peakBrightness"`
	ContrastRatio  flexString      `json:"contrastRatio"`
	Description    flexString      `json:"description"`
}

type rawCategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type rawCategory struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Slug  string     `json:"slug"`
	Image mediaField `json:"image"`
}

type rawImage struct {
	URL             string               `json:"url"`
	AlternativeText string               `json:"alternativeText"`
	Formats         map[string]rawFormat `json:"formats"`
}

type rawFormat struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// mediaField accepts a single media object, a multi-media array or null.
type mediaField []rawImage

func (m *mediaField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*m = nil
		return nil
	case data[0] == '[':
		var list []rawImage
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*m = list
		return nil
	default:
		var one rawImage
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*m = mediaField{one}
		return nil
	}
}

func (m mediaField) first() *rawImage {
	for i := range m {
		if strings.TrimSpace(m[i].URL) != "" || len(m[i].Formats) > 0 {
			return &m[i]
		}
	}
	return nil
}

// flexNumber decodes a JSON number or numeric string. Absent, null and blank values stay
// unset; so does an unparseable value, which is kept in invalid for logging.
type flexNumber struct {
	value   float64
	set     bool
	invalid string
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = flexNumber{}
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = flexNumber{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = flexNumber{invalid: raw}
		return nil
	}
	*n = flexNumber{value: v, set: true}
	return nil
}

func (n flexNumber) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

// flexString decodes a JSON string or number into its textual form.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("cms: expected string or number, got %s", data)
	}
	*s = flexString(num.String())
	return nil
}
