package model

// ProjectRecord is one entry of the projects manifest. Field order is the
// serialized key order consumed by the page templates.
type ProjectRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
	Thumbnail   string `json:"thumbnail"`
	Slug        string `json:"slug"`
}

// Manifest is the ordered list of project records written to disk.
type Manifest []ProjectRecord

// Titles returns the record titles in manifest order.
func (m Manifest) Titles() []string {
	titles := make([]string, len(m))
	for i, r := range m {
		titles[i] = r.Title
	}
	return titles
}
