package models

type SiteInfo struct {
	Name         string  `json:"name"`
	Tagline      string  `json:"tagline"`
	Description  string  `json:"description"`
	Logo         string  `json:"logo"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Whatsapp     string  `json:"whatsapp"`
	OpeningHours string  `json:"opening_hours"`
	MapLink      string  `json:"map_link"`
	Socials      Socials `json:"socials"`
}

type Socials struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Youtube   string `json:"youtube"`
}
