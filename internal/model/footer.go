package model

// FooterData is the shape of the footer data file read by the page-side
// footer loader. Every section is optional.
type FooterData struct {
	Contact *FooterContact `json:"contact,omitempty"`
	Social  []SocialLink   `json:"social,omitempty"`
	Credit  *FooterCredit  `json:"credit,omitempty"`
}

type FooterContact struct {
	Email string `json:"email"`
}

type SocialLink struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

type FooterCredit struct {
	Text string `json:"text"`
	Href string `json:"href"`
	Icon string `json:"icon"`
}
