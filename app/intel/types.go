package intel

import (
	"bytes"
	"encoding/json"
	"strings"
)

const StatusConfirmed = "confirmed"

type Source struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Record is one entry of the intel file. Records read from disk keep their
// original encoding and are written back verbatim, so fields this type does
// not model survive a sync.
type Record struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	Teaser       string   `json:"teaser"`
	Summary      string   `json:"summary"`
	HowItWorks   []string `json:"howItWorks"`
	Rewards      []string `json:"rewards"`
	RaiderImpact []string `json:"raiderImpact"`
	Sources      []Source `json:"sources"`
	LastUpdated  string   `json:"lastUpdated"`

	raw json.RawMessage
}

type recordFields Record

func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(recordFields(r)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON only insists on a JSON object. Hand-written records may use
// other types for fields the pipeline never reads; those are left zero.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var decoded recordFields
	if err := json.Unmarshal(data, &decoded); err != nil {
		decoded = recordFields{}
		_ = json.Unmarshal(fields["id"], &decoded.ID)
		_ = json.Unmarshal(fields["title"], &decoded.Title)
		_ = json.Unmarshal(fields["startDate"], &decoded.StartDate)
	}

	*r = Record(decoded)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// IsFetched reports whether the record was produced by a sync, which is
// recorded only in its id prefix.
func (r Record) IsFetched(idPrefix string) bool {
	return strings.HasPrefix(r.ID, idPrefix)
}
