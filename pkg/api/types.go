package api

import "encoding/json"

// Card is a single extracted business-card record as the backend reports it.
// LabelID is nil for unsorted cards; a non-nil LabelID means the card belongs
// to exactly one label group.
type Card struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Designation string  `json:"designation"`
	Company     string  `json:"company"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Website     string  `json:"website"`
	Country     string  `json:"country"`
	Flag        string  `json:"flag"`
	LabelID     *int64  `json:"label_id"`
	LabelName   *string `json:"label_name"`
	ImageBase64 string  `json:"image_base64,omitempty"`
	Filename    string  `json:"filename,omitempty"`
}

// Label is a user-defined card group.
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Extraction is one row of the recent-extractions feed.
type Extraction struct {
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// CardFields is the editable field subset sent to the card update endpoints.
// Zero-valued entries are omitted so the backend only sees what changed.
type CardFields struct {
	Name        string `json:"name,omitempty"`
	Designation string `json:"designation,omitempty"`
	Company     string `json:"company,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Country     string `json:"country,omitempty"`
	Flag        string `json:"flag,omitempty"`
}

// response is the JSON envelope every API endpoint wraps its payload in.
type response struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Card      *Card        `json:"card,omitempty"`
	Countries []Country    `json:"countries,omitempty"`
	Data      []Extraction `json:"data,omitempty"`
	APIKey    string       `json:"api_key,omitempty"`
}

// Country is a (code, flag emoji) pair as reported by /api/countries. The
// backend serializes it as a two-element array.
type Country struct {
	Code string
	Flag string
}

// UnmarshalJSON accepts the backend's ["US", "🇺🇸"] tuple form.
func (c *Country) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Code = pair[0]
	c.Flag = pair[1]
	return nil
}

// MarshalJSON writes the tuple form back out.
func (c Country) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Code, c.Flag})
}
