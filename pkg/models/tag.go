package models

import (
	"encoding/json"
	"strconv"
)

// TagID is a Kit tag identifier. Kit serves integer ids today but the
// wire contract also allows strings, so both decode into the same
// stringified form used for form option values.
type TagID string

func (id *TagID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TagID(s)
		return nil
	}
	*id = TagID(b)
	return nil
}

func (id TagID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id TagID) String() string { return string(id) }

// Tag is a named category record supplied by Kit.
type Tag struct {
	ID   TagID  `json:"id"`
	Name string `json:"name"`
}

// TagCatalog is the payload of GET /get_tags: every tag on the account
// plus an optional suggested default per dashboard selector.
type TagCatalog struct {
	AllTags   []Tag             `json:"all_tags"`
	Suggested map[string]*TagID `json:"suggested,omitempty"`
}

// TagRef names a tag picked for analysis (report open-rate breakdown).
type TagRef struct {
	ID   TagID  `json:"id"`
	Name string `json:"name"`
}
