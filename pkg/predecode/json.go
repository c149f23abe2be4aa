package predecode

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonTimestamp struct {
	Year  int    `json:"year"`
	Month string `json:"month"`
	Day   int    `json:"day"`
	Hour  string `json:"hour"`
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTimestamp{
		Year:  t.Year,
		Month: t.Mon(),
		Day:   t.Day,
		Hour:  t.Hour,
	})
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw jsonTimestamp
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	month, ok := monthFromAbbrev([]byte(raw.Month))
	if !ok && raw.Month != "" {
		return &ErrInvalidTimestamp{Field: "month", Value: raw.Month}
	}
	t.Year, t.Month, t.Day, t.Hour = raw.Year, month, raw.Day, raw.Hour
	return nil
}

// JSONFormat serializes pre-decoded event for shipping
func (e Event) JSONFormat() ([]byte, error) {
	return json.Marshal(e)
}
