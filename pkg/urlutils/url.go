// Package urlutils validates configured endpoint URLs.
package urlutils

import "net/url"

// IsValidURL checks if a URL is absolute and has a host
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// IsHTTPURL checks if a URL is a valid http or https URL
func IsHTTPURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
