package hook

import "github.com/CarloDePieri/pass2keepass2/internal/domain"

// recordJSON is the wire form of a record exchanged with exec hooks
type recordJSON struct {
	Identifier   string            `json:"identifier"`
	Groups       []string          `json:"groups"`
	Title        string            `json:"title"`
	Password     string            `json:"password"`
	URL          string            `json:"url"`
	Username     string            `json:"username"`
	Notes        string            `json:"notes"`
	CustomFields map[string]string `json:"custom_fields"`
}

func toJSON(r *domain.Record) recordJSON {
	groups := r.Groups
	if groups == nil {
		groups = []string{}
	}
	fields := r.CustomFields
	if fields == nil {
		fields = map[string]string{}
	}
	return recordJSON{
		Identifier:   r.Path(),
		Groups:       groups,
		Title:        r.Title,
		Password:     r.Secret,
		URL:          r.URL,
		Username:     r.Username,
		Notes:        r.Notes,
		CustomFields: fields,
	}
}

// fromJSON rebuilds a record. Groups and title from the hook win over the
// identifier, so a hook may move an entry.
func fromJSON(j recordJSON) *domain.Record {
	r := &domain.Record{
		Groups:       append([]string{}, j.Groups...),
		Title:        j.Title,
		Secret:       j.Password,
		URL:          j.URL,
		Username:     j.Username,
		Notes:        j.Notes,
		CustomFields: make(map[string]string, len(j.CustomFields)),
	}
	r.Identifier = append(append([]string{}, r.Groups...), r.Title)
	for k, v := range j.CustomFields {
		r.CustomFields[k] = v
	}
	return r
}
