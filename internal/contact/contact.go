// Package contact builds the URIs behind the contact buttons.
package contact

import (
	"net/url"
	"strings"
	"unicode"
)

// Mailto returns a mailto: URI for email
func Mailto(email string) string {
	return "mailto:" + email
}

// Tel returns a tel: URI for phone
func Tel(phone string) string {
	return "tel:" + phone
}

// SMS returns an sms: URI for phone
func SMS(phone string) string {
	return "sms:" + phone
}

// WhatsApp returns a wa.me link. The number keeps its digits only.
func WhatsApp(phone string) string {
	return "https://wa.me/" + Digits(phone)
}

// Digits strips everything but ASCII digits
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Link is a labelled contact target
type Link struct {
	Kind  string
	Label string
	Href  string
}

// Links returns the contact links that can be built from email and phone.
// Empty values are skipped.
func Links(email, phone string) []Link {
	var links []Link
	if email != "" {
		links = append(links, Link{Kind: "email", Label: email, Href: Mailto(email)})
	}
	if phone != "" {
		links = append(links,
			Link{Kind: "call", Label: phone, Href: Tel(phone)},
			Link{Kind: "sms", Label: phone, Href: SMS(phone)},
		)
		if Digits(phone) != "" {
			links = append(links, Link{Kind: "whatsapp", Label: phone, Href: WhatsApp(phone)})
		}
	}
	return links
}

// IsExternal reports whether href leaves the site over http(s)
func IsExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
