package config

// Profile holds the owner's display strings. Values are shown as-is.
type Profile struct {
	NameLong  string `json:"name_long"`
	NameShort string `json:"name_short"`
	Role      string `json:"role"`
	Location  string `json:"location"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// SocialLink is a named profile URL
type SocialLink struct {
	Name string
	URL  string
}

// LoadProfile reads the profile from PORTFOLIO_* environment variables
func LoadProfile() Profile {
	return Profile{
		NameLong:  EnvString("PORTFOLIO_NAME_LONG", "Jane Doe"),
		NameShort: EnvString("PORTFOLIO_NAME_SHORT", "Jane"),
		Role:      EnvString("PORTFOLIO_ROLE", "Software Engineer"),
		Location:  EnvString("PORTFOLIO_LOCATION", ""),
		Email:     EnvString("PORTFOLIO_EMAIL", ""),
		Phone:     EnvString("PORTFOLIO_PHONE", ""),
		LinkedIn:  EnvString("PORTFOLIO_LINKEDIN", ""),
		GitHub:    EnvString("PORTFOLIO_GITHUB", ""),
		Twitter:   EnvString("PORTFOLIO_TWITTER", ""),
		Instagram: EnvString("PORTFOLIO_INSTAGRAM", ""),
		Facebook:  EnvString("PORTFOLIO_FACEBOOK", ""),
		YouTube:   EnvString("PORTFOLIO_YOUTUBE", ""),
	}
}

// SocialLinks returns the configured social profiles in display order
func (p Profile) SocialLinks() []SocialLink {
	all := []SocialLink{
		{Name: "LinkedIn", URL: p.LinkedIn},
		{Name: "GitHub", URL: p.GitHub},
		{Name: "Twitter", URL: p.Twitter},
		{Name: "Instagram", URL: p.Instagram},
		{Name: "Facebook", URL: p.Facebook},
		{Name: "YouTube", URL: p.YouTube},
	}
	links := make([]SocialLink, 0, len(all))
	for _, l := range all {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}
